package ihex

import (
	"errors"

	"github.com/oisee/sim8085/pkg/translate"
)

var f = translate.From

var (
	ErrStartCode  = errors.New(f("record does not start with ':'"))
	ErrSyntax     = errors.New(f("record is not hex"))
	ErrLength     = errors.New(f("record length mismatch"))
	ErrChecksum   = errors.New(f("record checksum mismatch"))
	ErrRecordType = errors.New(f("unsupported record type"))
	ErrNoEOF      = errors.New(f("missing EOF record"))
)

// RecordError ties a decode error to its 1-based line.
type RecordError struct {
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return f("hex line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
