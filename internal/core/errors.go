// Package core defines sentinel errors.
package core

import "errors"

var (
	// Packet and PDU decoding errors
	ErrPacketTooShort   = errors.New("s1see: packet too short")
	ErrUnsupportedProto = errors.New("s1see: unsupported protocol")
	ErrTruncatedPDU     = errors.New("s1see: truncated pdu")
	ErrMalformedPDU     = errors.New("s1see: malformed pdu")

	// Spool errors
	ErrSpoolClosed     = errors.New("s1see: spool closed")
	ErrSegmentCorrupt  = errors.New("s1see: segment corrupt")
	ErrOffsetOutOfRange = errors.New("s1see: offset out of range")

	// Ruleset errors
	ErrRulesetInvalid = errors.New("s1see: invalid ruleset")

	// Configuration errors
	ErrConfigInvalid = errors.New("s1see: invalid configuration")

	// Ingest errors
	ErrServerNotRunning = errors.New("s1see: server not running")
)
