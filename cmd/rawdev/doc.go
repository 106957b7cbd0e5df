// Command rawdev develops RAW files in batch and writes the results as PNG.
//
// Usage:
//
//	rawdev [flags] <file|dir>...
//
// Directories are walked recursively for RAW extensions. For each input
// IMG_0001.CR3 the command writes IMG_0001.png to the output directory, plus
// IMG_0001.preview.png and IMG_0001.thumb.png when -preview or -thumbnail is
// given. A missing preview or thumbnail is written as the 1x1 placeholder
// and noted on stderr; a failed development skips the file and makes the
// exit status non-zero.
//
// Development settings use the same names as the HTTP bridge query
// parameters:
//
//	rawdev -o out -set white_balance=daylight -set exp_ev=1.5 -set output_bps=8 shoot/
//
// Flags:
//
//	-o dir             output directory (default: .)
//	-set key=value     development option, repeatable
//	-preview           also extract the embedded preview
//	-thumbnail         also extract the embedded thumbnail
//	-max-dim n         shrink previews and thumbnails to fit n pixels
//	-workers n         parallel developments (default: CPUs, or RAW_WORKERS)
//	-metrics-file f    write Prometheus metrics in text format when done
//	-v                 debug logging
//
// Environment:
//
//	DECODER_BIN, THUMB_DECODER_BIN, EXIFTOOL_BIN  tool overrides
//	MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT        heap limit
//	LOG_LEVEL                                     log verbosity
package main
