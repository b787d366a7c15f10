package artworks

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tudor-manea/lahinch/pkg/pagination"
)

// FilterArtistID is the only recognized search filter key. Unknown keys and
// malformed values are dropped rather than rejected.
const FilterArtistID = "artistId"

// sortColumns whitelists the caller-selectable sort fields.
var sortColumns = map[string]string{
	"created_at":   "artworks.created_at",
	"title":        "artworks.title",
	"price":        "artworks.price",
	"year_created": "artworks.year_created",
}

// SearchQuery is the parsed, typed form of a catalog search request.
type SearchQuery struct {
	ArtistID *uuid.UUID
	Term     string
	Sort     string
	SortDesc bool
	Page     pagination.Params
}

// ParseSearchQuery normalizes the raw request inputs. A malformed artistId
// filter is silently discarded so the query degrades to a broader result set
// instead of failing.
func ParseSearchQuery(page pagination.Params, filters map[string]string, term, sort string) SearchQuery {
	query := SearchQuery{
		Term: strings.TrimSpace(term),
		Page: page.Normalize(),
	}

	if raw, ok := filters[FilterArtistID]; ok {
		if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil && id != uuid.Nil {
			query.ArtistID = &id
		}
	}

	query.Sort, query.SortDesc = parseSort(sort)
	return query
}

// OrderClause renders the ORDER BY expression with the id tiebreak that keeps
// rows from drifting between pages.
func (q SearchQuery) OrderClause() string {
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, artworks.id %s", q.Sort, dir, dir)
}

func parseSort(raw string) (column string, desc bool) {
	field := strings.TrimSpace(raw)
	desc = true
	if field == "" {
		return sortColumns["created_at"], true
	}

	if idx := strings.IndexByte(field, ':'); idx >= 0 {
		switch strings.ToLower(strings.TrimSpace(field[idx+1:])) {
		case "asc":
			desc = false
		case "desc":
			desc = true
		}
		field = strings.TrimSpace(field[:idx])
	}

	column, ok := sortColumns[strings.ToLower(field)]
	if !ok {
		return sortColumns["created_at"], true
	}
	return column, desc
}
