package rawerr

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := New(UnsupportedFormat, "decoder.develop", "/in/a.cr2", errors.New("not a raw file"))
	msg := err.Error()
	for _, want := range []string{"unsupported_format", "decoder.develop", "/in/a.cr2", "not a raw file"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	noPath := New(InvalidConfig, "rawconfig.validate", "", errors.New("bad"))
	if strings.Contains(noPath.Error(), "  ") {
		t.Errorf("unexpected double space in %q", noPath.Error())
	}
}

func TestNewNilCause(t *testing.T) {
	err := New(ExtractionUnavailable, "exiftool", "", nil)
	if err.Err == nil {
		t.Fatal("New with nil cause should synthesize one")
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	base := New(FileUnreadable, "stat", "/x", fs.ErrNotExist)
	wrapped := fmt.Errorf("load primary: %w", base)

	if got := KindOf(wrapped); got != FileUnreadable {
		t.Errorf("KindOf(wrapped) = %q, want %q", got, FileUnreadable)
	}
	if !Is(wrapped, FileUnreadable) {
		t.Error("Is(wrapped, FileUnreadable) = false")
	}
	if !errors.Is(wrapped, fs.ErrNotExist) {
		t.Error("Unwrap chain should reach fs.ErrNotExist")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("KindOf(plain error) should be empty")
	}
	if Is(nil, FileUnreadable) {
		t.Error("Is(nil, ...) should be false")
	}
}

func TestIsPrimaryFailure(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{FileUnreadable, true},
		{UnsupportedFormat, true},
		{DecodeFailure, true},
		{InvalidConfig, false},
		{ExtractionUnavailable, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := IsPrimaryFailure(New(tt.kind, "op", "", nil)); got != tt.want {
				t.Errorf("IsPrimaryFailure(%s) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}
