package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/blackwell-systems/shelfmap/internal/errors"
)

func TestNew_Message(t *testing.T) {
	err := errors.New(errors.CodeSchemaMismatch, "missing column %q", "title")
	want := `SCHEMA_MISMATCH: missing column "title"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := errors.Wrap(errors.CodeCorruptSnapshot, cause, "reading snapshot")
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if err.Error() != "CORRUPT_SNAPSHOT: reading snapshot: disk full" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIs_ThroughFmtWrap(t *testing.T) {
	inner := errors.New(errors.CodeInvalidReference, "no shelf %q", "s1")
	outer := fmt.Errorf("moving book: %w", inner)

	if !errors.Is(outer, errors.CodeInvalidReference) {
		t.Error("Is should find the code through fmt.Errorf wrapping")
	}
	if errors.Is(outer, errors.CodeSchemaMismatch) {
		t.Error("Is matched the wrong code")
	}
	if got := errors.GetCode(outer); got != errors.CodeInvalidReference {
		t.Errorf("GetCode = %q, want %q", got, errors.CodeInvalidReference)
	}
}

func TestIs_WalksCodedCauses(t *testing.T) {
	cause := errors.New(errors.CodeInvalidReference, "layout for unknown library %q", "x")
	err := fmt.Errorf("loading: %w", errors.Wrap(errors.CodeCorruptSnapshot, cause, "restoring layouts"))

	tests := []struct {
		code errors.Code
		want bool
	}{
		{errors.CodeCorruptSnapshot, true},
		{errors.CodeInvalidReference, true},
		{errors.CodeNotFound, false},
	}
	for _, tt := range tests {
		if got := errors.Is(err, tt.code); got != tt.want {
			t.Errorf("Is(err, %s) = %v, want %v", tt.code, got, tt.want)
		}
	}
	if got := errors.GetCode(err); got != errors.CodeCorruptSnapshot {
		t.Errorf("GetCode = %q, want the outermost code", got)
	}
	if errors.Is(nil, errors.CodeNotFound) {
		t.Error("Is(nil) should be false")
	}
}

func TestGetCode_Plain(t *testing.T) {
	if got := errors.GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}
