package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeInvalidInput, "bad amount %v", -1.0),
			want: "INVALID_INPUT: bad amount -1",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeFileNotFound, stderrors.New("no such file"), "load holdings.json"),
			want: "FILE_NOT_FOUND: load holdings.json: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidMode, "unknown mode")
	wrapped := fmt.Errorf("compute layout: %w", err)

	if !Is(err, ErrCodeInvalidMode) {
		t.Errorf("Is() = false for direct error")
	}
	if !Is(wrapped, ErrCodeInvalidMode) {
		t.Errorf("Is() = false through fmt.Errorf wrapping")
	}
	if Is(err, ErrCodeInternal) {
		t.Errorf("Is() matched the wrong code")
	}
	if Is(stderrors.New("plain"), ErrCodeInternal) {
		t.Errorf("Is() matched a plain error")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeInternal, cause, "wrapped")
	if !stderrors.Is(err, cause) {
		t.Errorf("errors.Is did not reach the cause")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeUnsupported, "nope")); got != ErrCodeUnsupported {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeUnsupported)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidConfig, "radius must be positive")); got != "radius must be positive" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(stderrors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
