// Package mediatypes identifies camera RAW files by extension.
//
// The table covers the formats LibRaw decodes that are common in practice.
// Extensions are matched case-insensitively:
//
//	mediatypes.IsRaw("IMG_0001.CR3")        // true
//	mediatypes.Lookup("DSC_0042.nef").Vendor // "Nikon"
//
// Classification is advisory. The decoder is the authority on whether a file
// can be developed; callers that were handed an explicit path should try it
// regardless of extension.
package mediatypes
