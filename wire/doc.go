// Package wire defines the closed set of value shapes a preference backend
// can hold.
//
// Value is a sealed interface: only Bool, Int, Float, String, Bytes, URL,
// Array and Object implement it, so a conversion can never declare a wire
// shape the backends do not know how to persist.
//
// Serialization uses RFC 8785 canonical JSON:
//   - Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//   - No HTML escaping
//   - Floats in ES6 shortest form, ints as exact int64 digits
//   - Non-finite floats are rejected
package wire
