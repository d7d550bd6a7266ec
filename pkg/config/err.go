package config

import (
	"github.com/oisee/sim8085/pkg/translate"
)

var f = translate.From

// ErrUnknownKey is a profile key nothing reads, usually a typo.
type ErrUnknownKey string

func (e ErrUnknownKey) Error() string {
	return f("unknown profile key %v", string(e))
}

// ErrPortName is a [ports] key that is not a port number.
type ErrPortName string

func (e ErrPortName) Error() string {
	return f("bad port %v", string(e))
}

// RangeError is a profile value outside its field's range.
type RangeError struct {
	Key   string
	Value int
}

func (e *RangeError) Error() string {
	return f("%v = %d out of range", e.Key, e.Value)
}
