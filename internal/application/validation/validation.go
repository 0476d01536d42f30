// Package validation checks request DTOs against their `validate` tags.
//
// Struct normalizes the value first (when it has a Normalize method) and then
// returns either nil or an *Errors listing every offending field by its JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
)

// Password policy shared by every endpoint that sets a password.
const (
	PasswordMinLen = 8
	PasswordMaxLen = 16
)

// Errors is a list of field-level validation issues.
type Errors struct {
	Fields []dto.FieldError
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap makes errors.Is(err, domain.ErrValidation) hold.
func (e *Errors) Unwrap() error { return domain.ErrValidation }

type normalizer interface {
	Normalize()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return PasswordProblem(fl.Field().String()) == ""
	})
	mustRegister(v, "role", func(fl validator.FieldLevel) bool {
		return entity.Role(fl.Field().String()).Valid()
	})
	mustRegister(v, "sortorder", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "asc" || s == "desc"
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Struct normalizes s (a pointer to a DTO) and validates it.
func Struct(s any) error {
	if n, ok := s.(normalizer); ok {
		n.Normalize()
	}
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Errors{Fields: []dto.FieldError{{Field: "body", Message: "Invalid request"}}}
	}
	out := &Errors{Fields: make([]dto.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, dto.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// PasswordProblem describes why p breaks the password policy, or returns "".
func PasswordProblem(p string) string {
	n := len([]rune(p))
	if n < PasswordMinLen || n > PasswordMaxLen {
		return fmt.Sprintf("Password must be %d-%d characters long", PasswordMinLen, PasswordMaxLen)
	}
	var upper, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			special = true
		}
	}
	if !upper {
		return "Password must contain at least one uppercase letter"
	}
	if !special {
		return "Password must contain at least one special character"
	}
	return ""
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email format"
	case "uuid":
		return field + " must be a valid id"
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "password":
		return PasswordProblem(fe.Value().(string))
	case "role":
		return "Invalid role"
	case "sortorder":
		return "sortOrder must be asc or desc"
	}
	return field + " is invalid"
}
