package errors

import (
	"errors"
	"fmt"
	"testing"
)

var errCycle = errors.New("cycle detected")

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
		user string
	}{
		{New(ErrCodeInvalidInput, "missing column %q", "end_point"),
			`INVALID_INPUT: missing column "end_point"`, `missing column "end_point"`},
		{Wrap(ErrCodeInvalidGraph, errCycle, "layout %s", "edges.csv"),
			"INVALID_GRAPH: layout edges.csv: cycle detected", "layout edges.csv: cycle detected"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
		if got := UserMessage(tt.err); got != tt.user {
			t.Errorf("UserMessage() = %q, want %q", got, tt.user)
		}
	}
	if got := UserMessage(errCycle); got != "cycle detected" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "cycle detected")
	}
}

func TestWrapKeepsChain(t *testing.T) {
	err := fmt.Errorf("run: %w", Wrap(ErrCodeInvalidGraph, errCycle, "layout"))
	if !errors.Is(err, errCycle) {
		t.Error("errors.Is(err, errCycle) = false through Wrap")
	}
	var e *Error
	if !errors.As(err, &e) || e.Cause != errCycle {
		t.Errorf("errors.As() = %v, want *Error with the cycle cause", e)
	}
}

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"coded", New(ErrCodeInvalidFormat, "pdf"), ErrCodeInvalidFormat},
		{"outermost wins", Wrap(ErrCodeInvalidGraph, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeInvalidGraph},
		{"behind fmt wrap", fmt.Errorf("load: %w", New(ErrCodeFileNotFound, "edges.csv")), ErrCodeFileNotFound},
		{"plain", errCycle, ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(err, %q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeTimeout) {
				t.Error("Is(err, TIMEOUT) = true")
			}
		})
	}
}

func TestCodeClient(t *testing.T) {
	client := []Code{ErrCodeInvalidInput, ErrCodeInvalidGraph, ErrCodeInvalidFormat,
		ErrCodeInvalidPath, ErrCodeInvalidConfig, ErrCodeNotFound, ErrCodeFileNotFound}
	server := []Code{ErrCodeCacheUnavailable, ErrCodeStoreUnavailable, ErrCodeTimeout,
		ErrCodeInternal, ErrCodeUnsupported, ""}

	for _, c := range client {
		if !c.Client() {
			t.Errorf("%q.Client() = false, want true", c)
		}
	}
	for _, c := range server {
		if c.Client() {
			t.Errorf("%q.Client() = true, want false", c)
		}
	}

	if !IsClientError(Wrap(ErrCodeInvalidGraph, errCycle, "layout")) {
		t.Error("IsClientError(INVALID_GRAPH) = false")
	}
	if IsClientError(errCycle) {
		t.Error("IsClientError(plain) = true")
	}
}
