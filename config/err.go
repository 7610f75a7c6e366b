package config

import (
	"errors"

	"github.com/ezrec/primeval/translate"
)

var f = translate.From

var (
	ErrSettingType  = errors.New(f("setting type invalid"))
	ErrSettingRange = errors.New(f("setting out of range"))
)

// ErrSetting names the setting a type or range error applies to.
type ErrSetting struct {
	Key string
	Err error
}

func (err *ErrSetting) Error() string {
	return f("setting %v: %v", err.Key, err.Err)
}

func (err *ErrSetting) Unwrap() error {
	return err.Err
}
