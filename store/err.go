package store

import (
	"errors"

	"github.com/ezrec/primeval/translate"
)

var f = translate.From

var (
	ErrProgramShort = errors.New(f("program short"))
	ErrProgramLong  = errors.New(f("program long"))
)
