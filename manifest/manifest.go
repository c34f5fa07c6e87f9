package manifest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pimeo/iopole-search-params-builder/fault"
	"github.com/pimeo/iopole-search-params-builder/params"
	"github.com/pimeo/iopole-search-params-builder/query"
)

// Manifest is a declarative query definition. The condition list maps
// one-to-one onto builder calls; nesting is expressed by conditions
// that themselves carry a logic connector and a conditions list.
type Manifest struct {
	Logic      string          `yaml:"logic"`
	Conditions []ConditionSpec `yaml:"conditions"`
	Sort       []SortSpec      `yaml:"sort"`
	Page       int             `yaml:"page"`
	PageSize   int             `yaml:"page_size"`
}

// ConditionSpec is either a leaf (field plus value or between bounds)
// or a nested group (logic plus conditions). A spec that is neither is
// rejected during assembly.
type ConditionSpec struct {
	Field    string     `yaml:"field"`
	Operator string     `yaml:"operator"`
	Value    any        `yaml:"value"`
	Between  *RangeSpec `yaml:"between"`

	Logic      string          `yaml:"logic"`
	Conditions []ConditionSpec `yaml:"conditions"`
}

// RangeSpec bounds a field to an interval. Strict switches to
// exclusive bounds.
type RangeSpec struct {
	From   any  `yaml:"from"`
	To     any  `yaml:"to"`
	Strict bool `yaml:"strict"`
}

// SortSpec defines a single sorting criterion.
type SortSpec struct {
	Name         string `yaml:"name"`
	IsDescending bool   `yaml:"is_descending"`
}

// Load reads a manifest file and assembles the search parameters.
func Load(path string) (params.SearchParams, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return params.SearchParams{}, fmt.Errorf("cannot read manifest: %w", err)
	}

	return Parse(raw)
}

// Parse decodes a manifest document and assembles the search parameters.
func Parse(raw []byte) (params.SearchParams, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return params.SearchParams{}, fault.New(fault.BadInputCode, "cannot decode manifest").WithOriginal(err)
	}

	return m.Params()
}

// Params drives a query builder from the manifest's condition tree and
// attaches sorting and pagination. The result is validated.
func (m Manifest) Params() (params.SearchParams, error) {
	q, err := m.BuildQuery()
	if err != nil {
		return params.SearchParams{}, err
	}

	p := params.SearchParams{
		Query:    q,
		Page:     m.Page,
		PageSize: m.PageSize,
	}

	if p.Page == 0 {
		p.Page = params.DefaultPage
	}
	if p.PageSize == 0 {
		p.PageSize = params.DefaultPageSize
	}

	for _, s := range m.Sort {
		p.Sort = append(p.Sort, params.SortField{Name: s.Name, IsDescending: s.IsDescending})
	}

	if err := p.Validate(); err != nil {
		return params.SearchParams{}, err
	}

	return p, nil
}

// BuildQuery renders only the filter expression. A non-AND top-level
// logic is expressed as a single nested group, which the builder emits
// unwrapped when it is the only child.
func (m Manifest) BuildQuery() (string, error) {
	logic, err := query.LogicFromName(m.Logic)
	if err != nil {
		return "", err
	}

	b := query.New()

	if logic == query.LogicAnd {
		err = applyConditions(b, m.Conditions)
	} else {
		b.Group(logic, func(sub *query.Builder) {
			err = applyConditions(sub, m.Conditions)
		})
	}
	if err != nil {
		return "", err
	}

	return b.Build()
}

func applyConditions(b *query.Builder, specs []ConditionSpec) error {
	for _, spec := range specs {
		if err := applyCondition(b, spec); err != nil {
			return err
		}
	}
	return nil
}

func applyCondition(b *query.Builder, spec ConditionSpec) error {
	switch {
	case spec.Conditions != nil:
		logic, err := query.LogicFromName(spec.Logic)
		if err != nil {
			return err
		}

		var nested error
		b.Group(logic, func(sub *query.Builder) {
			nested = applyConditions(sub, spec.Conditions)
		})
		return nested

	case spec.Between != nil:
		if spec.Field == "" {
			return fault.New(fault.BadInputCode, "between condition requires a field")
		}

		if spec.Between.Strict {
			b.StrictBetween(spec.Field, spec.Between.From, spec.Between.To)
		} else {
			b.Between(spec.Field, spec.Between.From, spec.Between.To)
		}
		return nil

	case spec.Field != "":
		switch spec.Operator {
		case "", "matches":
			b.Matches(spec.Field, spec.Value)
		default:
			op, err := query.OperatorFromName(spec.Operator)
			if err != nil {
				return fault.New(fault.BadInputCode, fmt.Sprintf("field %q: %v", spec.Field, err))
			}
			b.Where(spec.Field, op, spec.Value)
		}
		return nil

	default:
		return fault.New(fault.BadInputCode, "condition must define a field or a nested group")
	}
}
