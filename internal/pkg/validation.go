package pkg

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// personNamePattern rejects digits and punctuation other than spaces,
// hyphens, apostrophes and dots.
var personNamePattern = regexp.MustCompile(`^[\p{L}][\p{L} '.\-]*$`)

var registerOnce sync.Once
var registerErr error

// RegisterValidators installs the custom binding tags used by request DTOs
// on gin's default validator. It is safe to call more than once.
//
//	personname  letters, spaces, hyphens, apostrophes and dots only
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
			return personNamePattern.MatchString(fl.Field().String())
		})
	})
	return registerErr
}
