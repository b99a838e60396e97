package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		user string
	}{
		{
			name: "plain",
			err:  New(ErrCodeInvalidInput, "document name cannot be empty"),
			want: "INVALID_INPUT: document name cannot be empty",
			user: "document name cannot be empty",
		},
		{
			name: "wrapped",
			err:  Wrap(ErrCodeWriteFailed, errors.New("permission denied"), "write %s", "configurations/dev.dsc.yaml"),
			want: "WRITE_FAILED: write configurations/dev.dsc.yaml: permission denied",
			user: "write configurations/dev.dsc.yaml: permission denied",
		},
		{
			name: "foreign",
			err:  errors.New("boom"),
			want: "boom",
			user: "boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if got := UserMessage(tt.err); got != tt.user {
				t.Errorf("UserMessage() = %q, want %q", got, tt.user)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeFileNotFound, os.ErrNotExist, "read dev.dsc.yaml")

	if !errors.Is(err, os.ErrNotExist) {
		t.Error("errors.Is(err, os.ErrNotExist) = false, want true")
	}
	if errors.Unwrap(err) != os.ErrNotExist {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), os.ErrNotExist)
	}
}

func TestCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"direct", New(ErrCodeUnhandledResource, "x"), ErrCodeUnhandledResource},
		{"outermost wins", Wrap(ErrCodeReadFailed, New(ErrCodeFileNotFound, "inner"), "outer"), ErrCodeReadFailed},
		{"behind fmt wrap", fmt.Errorf("dev.dsc.yaml: %w", New(ErrCodeWriteFailed, "x")), ErrCodeWriteFailed},
		{"foreign", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %v, want %v", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%v) = false, want true", tt.code)
			}
			if Is(tt.err, ErrCodeInternal) {
				t.Error("Is(INTERNAL_ERROR) = true, want false")
			}
		})
	}
}
