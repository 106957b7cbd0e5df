// Package exiftool extracts embedded preview images from RAW files with the
// external exiftool utility.
//
// Whether exiftool is installed is resolved once per process by ProbeOnce
// and passed to New as a capability flag, so extraction code never re-probes
// the environment. Absence of the tool and absence of the requested tag are
// both expected conditions and are reported with ErrUnavailable and
// ErrTagAbsent rather than as failures.
package exiftool
