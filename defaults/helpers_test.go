package defaults

import (
	"math"

	"github.com/roach88/prefs/store"
)

func nan() float64 { return math.NaN() }

func entry(key, kind, value string) store.Entry {
	return store.Entry{Key: key, Kind: kind, Value: []byte(value)}
}
