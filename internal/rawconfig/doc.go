// Package rawconfig turns user-facing development options into a validated
// DecoderConfig.
//
// Translate is total and pure: out-of-range numbers are clamped to their
// documented bounds, unknown enum names fall back to defaults, and the same
// Options always produce an identical DecoderConfig. Two precedence rules
// apply:
//
//   - Explicit custom white-balance multipliers (all four positive and not
//     the neutral 1,1,1,1) override any named white-balance mode.
//   - Highlight preservation is kept in the config but has no effect when the
//     exposure shift is exactly zero (see DecoderConfig.PreservationActive).
//
// The exposure shift keeps the same bounds at both output depths. None of
// the options here depend on 16-bit output, so an 8-bit depth caps nothing.
//
// DecoderConfig.Args renders the configuration as a dcraw_emu argument list.
package rawconfig
