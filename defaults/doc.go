// Package defaults binds typed preference keys to a store.Backend.
//
// A Key pairs a name and default value with a codec.Codec. Reading a key
// that has no stored entry yields its default; reading an entry whose
// stored kind differs from the key's wire kind fails with ErrKindMismatch
// rather than guessing.
//
//	var Theme = defaults.NewKey("theme", ModeLight, codec.StringEnum(ModeLight, ModeDark))
//
//	s := defaults.New(memory.New())
//	_ = Theme.Set(ctx, s, ModeDark)
//	mode, err := Theme.Get(ctx, s)
//
// Store delivers a Change to observers after every successful write or
// removal made through it. Writes made directly to the backend, or by
// other processes sharing it, are not observed.
package defaults
