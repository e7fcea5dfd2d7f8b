package client

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/fetchkit/engine"
)

func TestError_Predicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{"transport", NewTransportError("http://x", errors.New("reset")), IsTransport},
		{"canceled", NewCancelError(nil), IsCanceled},
		{"engine", NewEngineError("http://x", engine.StartErrEngineClosed, nil), IsEngine},
		{"timeout", NewTimeoutError("http://x", time.Second), IsTimeout},
		{"validation", NewValidationError("bad input"), IsValidation},
		{"disposed", NewDisposedError(), IsDisposed},
	}

	predicates := []func(error) bool{IsTransport, IsCanceled, IsEngine, IsTimeout, IsValidation, IsDisposed}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.want(tt.err) {
				t.Errorf("predicate should match %v", tt.err)
			}
			matched := 0
			for _, p := range predicates {
				if p(tt.err) {
					matched++
				}
			}
			if matched != 1 {
				t.Errorf("exactly one predicate should match, got %d", matched)
			}
		})
	}
}

func TestError_PredicatesThroughWrapping(t *testing.T) {
	inner := NewTimeoutError("http://x", time.Second)
	wrapped := fmt.Errorf("attempt 3: %w", inner)

	if !IsTimeout(wrapped) {
		t.Error("predicate should see through fmt.Errorf wrapping")
	}
	if IsTransport(wrapped) {
		t.Error("wrong predicate matched")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransportError("http://x", cause)

	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}
}

func TestError_Message(t *testing.T) {
	err := NewTimeoutError("http://example.com/slow", 2*time.Second)
	msg := err.Error()
	if !strings.Contains(msg, "timeout") {
		t.Errorf("expected code name in message, got %q", msg)
	}
	if !strings.Contains(msg, "http://example.com/slow") {
		t.Errorf("expected URL in message, got %q", msg)
	}

	noURL := NewValidationError("bad input")
	if strings.Contains(noURL.Error(), "()") {
		t.Errorf("empty URL should not render, got %q", noURL.Error())
	}
}

func TestError_EngineCode(t *testing.T) {
	err := NewEngineError("http://x", engine.StartErrAlreadyStarted, nil)
	if err.EngineCode != engine.StartErrAlreadyStarted {
		t.Errorf("expected already_started, got %v", err.EngineCode)
	}
	if !strings.Contains(err.Error(), "engine") {
		t.Errorf("expected code name in message, got %q", err.Error())
	}
}

func TestErrorCode_String(t *testing.T) {
	cases := map[ErrorCode]string{
		ErrCodeTransport:  "transport",
		ErrCodeCanceled:   "canceled",
		ErrCodeEngine:     "engine",
		ErrCodeTimeout:    "timeout",
		ErrCodeValidation: "validation",
		ErrCodeDisposed:   "disposed",
		ErrorCode(99):     "unknown",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", code, got, want)
		}
	}
}
