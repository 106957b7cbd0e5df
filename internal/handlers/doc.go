// Package handlers implements the HTTP bridge a host application uses to
// load RAW files without linking the decoder.
//
// Every image endpoint takes a path relative to MEDIA_DIR:
//
//	GET /api/develop/{path}    full development, PNG (16-bit unless output_bps=8)
//	GET /api/preview/{path}    embedded preview, PNG; placeholder when none
//	GET /api/thumbnail/{path}  embedded thumbnail, PNG; placeholder when none
//	GET /api/info/{path}       JSON shapes, value ranges and tier reports
//	GET /api/options           accepted option names
//
// Development options are query parameters named after the decoder
// settings, for example:
//
//	/api/develop/2024/IMG_0001.CR3?white_balance=daylight&exp_ev=1.5&demosaic_algorithm=DCB
//
// Errors are JSON objects with an "error" and a "kind" field. Kinds map to
// status codes: file_unreadable 404, unsupported_format 415,
// decode_failure 422, invalid_config 500. Malformed query parameters are
// 400.
//
// Preview and thumbnail requests never fail once the file exists; the
// X-Raw-Placeholder response header marks a placeholder image and
// X-Raw-Tier names the tier that produced it.
package handlers
