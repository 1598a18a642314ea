package models

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	eventNameRegex = regexp.MustCompile(`^[\p{L}\p{N} '&\-.,!]{3,80}$`)
	nicknameRegex  = regexp.MustCompile(`^[\p{L}\p{N} _\-.]{1,32}$`)
	handleRegex    = regexp.MustCompile(`^@?[A-Za-z0-9_.]{1,30}$`)
)

var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("eventname", matchTrimmed(eventNameRegex))
	_ = v.RegisterValidation("nickname", matchTrimmed(nicknameRegex))
	_ = v.RegisterValidation("handle", matchTrimmed(handleRegex))
	return v
}

func matchTrimmed(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(strings.TrimSpace(fl.Field().String()))
	}
}

// ValidateStruct runs the struct validator and tags the failure as ErrValidation.
func ValidateStruct(s interface{}) error {
	if err := Validate.Struct(s); err != nil {
		return ValidationError(err)
	}
	return nil
}
