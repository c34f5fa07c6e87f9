package query

import (
	"testing"

	"github.com/pimeo/iopole-search-params-builder/fault"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value    Value
		expected string
	}{
		{String("active"), `"active"`},
		{String("*123456"), `"*123456"`},
		{String(""), `""`},
		{String(`"*123456"`), `"*123456"`},
		{String(`"already quoted`), `"already quoted`},
		{Int(10), "10"},
		{Int(-3), "-3"},
		{Float(10), "10"},
		{Float(10.5), "10.5"},
		{Float(-0.25), "-0.25"},
		{Bool(true), "true"},
		{Bool(false), "false"},
	}

	for _, tt := range tests {
		if got := formatValue(tt.value); got != tt.expected {
			t.Fatalf("formatValue(%#v) = %q, want %q", tt.value, got, tt.expected)
		}
	}
}

// Formatting a string that already starts with a double quote must
// return it unchanged; formatting twice never stacks quotes.
func TestFormatValueQuoteIdempotence(t *testing.T) {
	once := formatValue(String("invoice"))
	twice := formatValue(String(once))

	if once != twice {
		t.Fatalf("formatting is not idempotent: %q then %q", once, twice)
	}
}

func TestToValue(t *testing.T) {
	tests := []struct {
		input    any
		expected Value
	}{
		{"active", String("active")},
		{true, Bool(true)},
		{10, Int(10)},
		{int8(2), Int(2)},
		{int16(3), Int(3)},
		{int32(4), Int(4)},
		{int64(5), Int(5)},
		{uint(6), Int(6)},
		{uint8(7), Int(7)},
		{uint16(8), Int(8)},
		{uint32(9), Int(9)},
		{uint64(11), Int(11)},
		{float32(1.5), Float(1.5)},
		{2.5, Float(2.5)},
		{String("typed"), String("typed")},
	}

	for _, tt := range tests {
		got, err := toValue(tt.input)
		if err != nil {
			t.Fatalf("toValue(%#v) returned error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Fatalf("toValue(%#v) = %#v, want %#v", tt.input, got, tt.expected)
		}
	}
}

func TestToValueUnsupported(t *testing.T) {
	inputs := []any{
		nil,
		[]string{"a", "b"},
		map[string]any{"k": "v"},
		struct{ X int }{X: 1},
	}

	for _, input := range inputs {
		_, err := toValue(input)
		if err == nil {
			t.Fatalf("toValue(%#v) expected error, got none", input)
		}
		if fault.Code(err) != fault.UnsupportedValueCode {
			t.Fatalf("toValue(%#v) fault code = %v, want %v", input, fault.Code(err), fault.UnsupportedValueCode)
		}
	}
}
