package validators

import (
	"errors"
	"io"
	"net/http"

	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/types"
)

// maxMultipartMemory bounds how much of a multipart form is buffered in
// memory before spilling to disk.
const maxMultipartMemory = 32 << 20

// ParseMultipartForm parses the request as multipart form data.
func ParseMultipartForm(r *http.Request) error {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

// FormFile reads the named file part into memory. A missing part returns nil
// without error so callers can treat uploads as optional.
func FormFile(r *http.Request, field string) (*types.FileUpload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file upload").WithDetails(map[string]any{"field": field})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading file upload").WithDetails(map[string]any{"field": field})
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &types.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
