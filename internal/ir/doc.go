// Package ir defines the value model used for stack states, scenario payloads
// and journal records.
//
// Values form a sealed set: Null, String, Int, Bool, Array and Object. There
// is no float type; numbers are int64 so that canonical encodings, digests
// and golden traces are byte-for-byte reproducible.
//
// Equal compares values structurally and treats nil and empty collections as
// the same value. MarshalCanonical produces RFC 8785 style canonical JSON and
// Digest hashes it with domain separation.
//
// ir imports nothing internal.
package ir
