package manifest

import (
	"testing"

	"github.com/pimeo/iopole-search-params-builder/fault"
)

func TestParseQueries(t *testing.T) {
	tests := map[string]string{
		`
conditions:
  - field: status
    value: active
`: `status:"active"`,

		`
conditions:
  - field: count
    operator: is
    value: 10
`: "count:=10",

		`
conditions:
  - field: createdDate
    operator: gte
    value: "2024-01-01"
  - field: createdDate
    operator: lte
    value: "2025-01-01"
`: `createdDate:>="2024-01-01" AND createdDate:<="2025-01-01"`,

		`
conditions:
  - field: amount
    between: {from: 10, to: 20}
`: "amount:[10 TO 20]",

		`
conditions:
  - field: amount
    between: {from: 10, to: 20, strict: true}
`: "amount:{10 TO 20}",

		`
logic: OR
conditions:
  - field: role
    value: admin
  - field: role
    value: editor
`: `(role:"admin" OR role:"editor")`,

		`
conditions:
  - field: buyer.siren
    value: "*123456789"
  - logic: OR
    conditions:
      - field: buyer.corporateName
        value: iopole
      - field: seller.corporateName
        value: myOtherCompany
  - field: createdDate
    operator: gte
    value: "2024-01-01"
`: `buyer.siren:"*123456789" AND (buyer.corporateName:"iopole" OR seller.corporateName:"myOtherCompany") AND createdDate:>="2024-01-01"`,

		``: ``,
	}

	for input, expected := range tests {
		p, err := Parse([]byte(input))
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", input, err)
		}
		if p.Query != expected {
			t.Fatalf("Parse(%q)\nquery %q,\nwant %q", input, p.Query, expected)
		}
	}
}

func TestParseControlFields(t *testing.T) {
	input := `
conditions:
  - field: status
    value: active
sort:
  - name: createdDate
    is_descending: true
  - name: amount
page: 3
page_size: 50
`

	p, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if p.Page != 3 || p.PageSize != 50 {
		t.Fatalf("pagination = %d/%d, want 3/50", p.Page, p.PageSize)
	}
	if len(p.Sort) != 2 {
		t.Fatalf("sort length = %d, want 2", len(p.Sort))
	}
	if p.Sort[0].Name != "createdDate" || !p.Sort[0].IsDescending {
		t.Fatalf("sort[0] = %+v, want descending createdDate", p.Sort[0])
	}
	if p.Sort[1].Name != "amount" || p.Sort[1].IsDescending {
		t.Fatalf("sort[1] = %+v, want ascending amount", p.Sort[1])
	}
}

func TestParseDefaultsPagination(t *testing.T) {
	p, err := Parse([]byte(`
conditions:
  - field: status
    value: active
`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if p.Page != 1 || p.PageSize != 25 {
		t.Fatalf("pagination defaults = %d/%d, want 1/25", p.Page, p.PageSize)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"unknown operator": `
conditions:
  - field: status
    operator: resembles
    value: active
`,
		"unknown logic": `
conditions:
  - logic: XOR
    conditions:
      - field: a
        value: b
`,
		"neither leaf nor group": `
conditions:
  - operator: eq
    value: orphan
`,
		"between without field": `
conditions:
  - between: {from: 1, to: 2}
`,
		"page size out of bounds": `
conditions:
  - field: status
    value: active
page_size: 5000
`,
		"not yaml": "\t{{",
	}

	for name, input := range tests {
		_, err := Parse([]byte(input))
		if err == nil {
			t.Fatalf("%s: Parse expected error, got none", name)
		}
		if fault.Code(err) != fault.BadInputCode {
			t.Fatalf("%s: fault code = %v, want %v", name, fault.Code(err), fault.BadInputCode)
		}
	}
}
