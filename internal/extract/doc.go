// Package extract implements the extraction strategies and the tiered
// extractor that turns one RAW file into one image per output slot.
//
// A Strategy makes a single attempt and reports a Result: Success with a
// pixel buffer, Unavailable when the source simply is not there (no tool, no
// embedded image), or Failed when something was there but could not be
// decoded. Tiered walks a Chain of strategies in order, stops at the first
// Success, and falls back to a 1x1 black placeholder when every tier comes up
// empty. Preview and thumbnail slots never surface an error.
package extract
