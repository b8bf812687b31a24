package server

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// emailPattern accepts local@domain.tld with no whitespace or extra @.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerValidators adds the "mailbox" rule to gin's validator engine.
func registerValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
	})
	return registerErr
}

// failedTags returns the validation tags that failed in err, or nil when err
// is not a validation error (for example malformed JSON).
func failedTags(err error) map[string]bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	tags := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		tags[fe.Tag()] = true
	}
	return tags
}
