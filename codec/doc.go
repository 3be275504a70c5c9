// Package codec defines the conversion contract between rich Go values and
// the wire shapes a preference backend can hold.
//
// A Codec[T, W] converts a T to its wire form W and back. ToWire is a
// structural projection and never fails. FromWire fails only when an
// enumeration is rebuilt from a raw value that names no case; that error
// propagates unchanged (wrapped with the element path) out of any container
// that holds the enumeration.
//
// Containers compose over element codecs:
//
//	tags := codec.Slice(codec.String[string]())
//	limits := codec.Map(codec.Int[int]())
//	rows := codec.Slice(codec.Map(codec.Int[int]()))
//
// Because the element codec is an argument, a container conversion cannot
// be built for an element type that has none.
//
// All codecs in this package are stateless and safe for concurrent use.
package codec
