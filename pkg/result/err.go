package result

import (
	"errors"

	"github.com/oisee/sim8085/pkg/translate"
)

var f = translate.From

var ErrCheckpointSize = errors.New(f("checkpoint memory image has the wrong size"))
