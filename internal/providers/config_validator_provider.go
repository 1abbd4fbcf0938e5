package providers

import (
	"errors"

	"github.com/gookit/validate"

	"fixd/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks the config against its struct tags and returns the
// first validation error found.
func (cv *CnfValidator) Validate() error {
	for _, section := range []interface{}{
		&cv.conf.WebServer,
		&cv.conf.Persistence,
		&cv.conf.Logger,
	} {
		v := validate.Struct(section)
		if !v.Validate() {
			return errors.New(v.Errors.One())
		}
	}
	return nil
}
