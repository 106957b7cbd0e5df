package mediatypes

import (
	"path/filepath"
	"sort"
	"strings"
)

// Format describes one RAW container.
type Format struct {
	Extension string `json:"extension"`
	Vendor    string `json:"vendor"`
	Name      string `json:"name"`
}

// RawFormats maps lower-case extensions to their format.
var RawFormats = map[string]Format{
	".3fr": {".3fr", "Hasselblad", "3FR"},
	".arw": {".arw", "Sony", "ARW"},
	".cr2": {".cr2", "Canon", "CR2"},
	".cr3": {".cr3", "Canon", "CR3"},
	".crw": {".crw", "Canon", "CRW"},
	".dcr": {".dcr", "Kodak", "DCR"},
	".dng": {".dng", "Adobe", "DNG"},
	".erf": {".erf", "Epson", "ERF"},
	".iiq": {".iiq", "Phase One", "IIQ"},
	".kdc": {".kdc", "Kodak", "KDC"},
	".mef": {".mef", "Mamiya", "MEF"},
	".mos": {".mos", "Leaf", "MOS"},
	".mrw": {".mrw", "Minolta", "MRW"},
	".nef": {".nef", "Nikon", "NEF"},
	".nrw": {".nrw", "Nikon", "NRW"},
	".orf": {".orf", "Olympus", "ORF"},
	".pef": {".pef", "Pentax", "PEF"},
	".raf": {".raf", "Fujifilm", "RAF"},
	".raw": {".raw", "Panasonic", "RAW"},
	".rw2": {".rw2", "Panasonic", "RW2"},
	".rwl": {".rwl", "Leica", "RWL"},
	".sr2": {".sr2", "Sony", "SR2"},
	".srf": {".srf", "Sony", "SRF"},
	".srw": {".srw", "Samsung", "SRW"},
	".x3f": {".x3f", "Sigma", "X3F"},
}

// Lookup returns the format for path's extension.
func Lookup(path string) (Format, bool) {
	f, ok := RawFormats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// IsRaw reports whether path has a known RAW extension.
func IsRaw(path string) bool {
	_, ok := Lookup(path)
	return ok
}

// Extensions returns the known extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(RawFormats))
	for ext := range RawFormats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
