package params

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/pimeo/iopole-search-params-builder/fault"
	"github.com/pimeo/iopole-search-params-builder/query"
)

const (
	PageSizeMin = 1
	PageSizeMax = 1000

	DefaultPage     = 1
	DefaultPageSize = 25
)

// SearchParams is the full parameter set for one search request: the
// rendered filter query plus sorting and pagination. It carries no
// transport; callers encode it and send it with their own client.
type SearchParams struct {
	// Query is the rendered filter expression. Empty means "match all".
	Query string

	// Sort defines the order of the results. If multiple fields are
	// provided, they are applied in the order they appear in the slice.
	Sort []SortField

	// Page is the 1-based result page to fetch.
	Page int

	// PageSize is the number of records per page.
	// Must be between PageSizeMin and PageSizeMax.
	PageSize int
}

// SortField defines a single sorting criterion.
type SortField struct {
	// Name is the field to sort by (e.g., "createdDate", "amount").
	Name string

	// IsDescending specifies if the sort should be in reverse order.
	IsDescending bool
}

// FromBuilder captures a built query with default pagination. A build
// error propagates unchanged.
func FromBuilder(b *query.Builder) (SearchParams, error) {
	q, err := b.Build()
	if err != nil {
		return SearchParams{}, err
	}

	return SearchParams{
		Query:    q,
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}, nil
}

func (p SearchParams) Validate() error {
	if p.PageSize > PageSizeMax {
		return fault.New(fault.BadInputCode, "").WithMetadata(fault.FieldErrorsMetadata{"pageSize": []string{fmt.Sprintf("Values larger than %d are not supported.", PageSizeMax)}})
	}

	if p.PageSize < PageSizeMin {
		return fault.New(fault.BadInputCode, "").WithMetadata(fault.FieldErrorsMetadata{"pageSize": []string{fmt.Sprintf("Values smaller than %d are not supported.", PageSizeMin)}})
	}

	if p.Page < 1 {
		return fault.New(fault.BadInputCode, "").WithMetadata(fault.FieldErrorsMetadata{"page": []string{"Field must be positive."}})
	}

	for _, s := range p.Sort {
		if s.Name == "" {
			return fault.New(fault.BadInputCode, "").WithMetadata(fault.FieldErrorsMetadata{"sort": []string{"Sort field name is required."}})
		}
	}

	return nil
}

// Values encodes the parameters for the search endpoint. Sort fields
// render as "name" or "-name", in order.
func (p SearchParams) Values() url.Values {
	v := url.Values{}

	if p.Query != "" {
		v.Set("q", p.Query)
	}

	for _, s := range p.Sort {
		name := s.Name
		if s.IsDescending {
			name = "-" + name
		}
		v.Add("sort", name)
	}

	v.Set("page", strconv.Itoa(p.Page))
	v.Set("pageSize", strconv.Itoa(p.PageSize))

	return v
}
