package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tudor-manea/lahinch/api/validators"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/pagination"
)

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "missing url parameter").WithDetails(map[string]any{"field": name})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid url parameter").WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

func pageParams(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	size, err := validators.ParseQueryInt(r, "page_size", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, PageSize: size}, nil
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func formOptString(r *http.Request, key string) *string {
	if !formHas(r, key) {
		return nil
	}
	value := formValue(r, key)
	return &value
}

func formOptInt(r *http.Request, key string) (*int, error) {
	raw := formValue(r, key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "form field must be numeric").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

func formOptDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := formValue(r, key)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "form field must be a decimal number").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

func formOptBool(r *http.Request, key string) (*bool, error) {
	raw := formValue(r, key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "form field must be a boolean").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

func formHas(r *http.Request, key string) bool {
	if r.MultipartForm != nil {
		if _, ok := r.MultipartForm.Value[key]; ok {
			return true
		}
	}
	if r.Form != nil {
		if _, ok := r.Form[key]; ok {
			return true
		}
	}
	return false
}
