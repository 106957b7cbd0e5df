// Package rawerr defines the error taxonomy shared by the decoder, the
// extraction tiers and the HTTP bridge.
//
// Every failure that crosses a package boundary is an *Error carrying a Kind.
// Callers branch on the kind with Is or KindOf rather than on message text.
package rawerr
