// Package canon produces canonical JSON (RFC 8785 subset) for traces and
// state snapshots.
//
// Canonical output is byte-stable: object keys are sorted by UTF-16 code
// units, strings are NFC normalized and only the characters JSON requires
// are escaped. Floats and null are rejected so that snapshots never depend
// on formatting choices.
package canon
