package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestCode(t *testing.T) {
	plain := New(BadInputCode, "bad")
	wrapped := fmt.Errorf("outer: %w", New(UnsupportedValueCode, "unsupported"))

	tests := []struct {
		err      error
		expected faultCode
	}{
		{plain, BadInputCode},
		{wrapped, UnsupportedValueCode},
		{errors.New("not a fault"), UnknownCode},
		{nil, UnknownCode},
	}

	for _, tt := range tests {
		if got := Code(tt.err); got != tt.expected {
			t.Fatalf("Code(%v) = %v, want %v", tt.err, got, tt.expected)
		}
	}
}

func TestErrorIncludesOriginal(t *testing.T) {
	original := errors.New("boom")
	f := New(UnknownCode, "something failed").WithOriginal(original)

	if got := f.Error(); got != "something failed: boom" {
		t.Fatalf("Error() = %q", got)
	}

	if !errors.Is(f, original) {
		t.Fatal("fault must unwrap to its original error")
	}
}
