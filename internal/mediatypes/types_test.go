package mediatypes

import (
	"sort"
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		path   string
		vendor string
		ok     bool
	}{
		{"IMG_0001.CR3", "Canon", true},
		{"/media/2024/DSC_0042.nef", "Nikon", true},
		{"P1000123.RW2", "Panasonic", true},
		{"photo.jpg", "", false},
		{"noext", "", false},
		{"archive.cr3.zip", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, ok := Lookup(tt.path)
			if ok != tt.ok || f.Vendor != tt.vendor {
				t.Errorf("Lookup(%q) = %+v, %v; want vendor %q, %v", tt.path, f, ok, tt.vendor, tt.ok)
			}
			if IsRaw(tt.path) != tt.ok {
				t.Errorf("IsRaw(%q) = %v, want %v", tt.path, !tt.ok, tt.ok)
			}
		})
	}
}

func TestRawFormatsConsistent(t *testing.T) {
	for ext, f := range RawFormats {
		if ext != strings.ToLower(ext) || !strings.HasPrefix(ext, ".") {
			t.Errorf("key %q must be a lower-case extension", ext)
		}
		if f.Extension != ext {
			t.Errorf("RawFormats[%q].Extension = %q", ext, f.Extension)
		}
		if f.Vendor == "" || f.Name == "" {
			t.Errorf("RawFormats[%q] incomplete: %+v", ext, f)
		}
	}
}

func TestExtensions(t *testing.T) {
	exts := Extensions()
	if len(exts) != len(RawFormats) {
		t.Errorf("len(Extensions()) = %d, want %d", len(exts), len(RawFormats))
	}
	if !sort.StringsAreSorted(exts) {
		t.Errorf("Extensions() not sorted: %v", exts)
	}
}
