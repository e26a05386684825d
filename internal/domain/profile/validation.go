package profile

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldImage     = "image"

	MsgRequired     = "Can't be empty"
	MsgInvalidEmail = "Invalid email address"
	MsgInvalidImage = "Use PNG or JPG below 1024x1024px"
)

var simpleEmailRegex = regexp.MustCompile(`(?i)^\S+@\S+$`)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Fields is the user-editable part of a profile as submitted by the form.
type Fields struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"omitempty,simpleemail"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return simpleEmailRegex.MatchString(fl.Field().String())
	})
	return v
}

var fieldNames = map[string]string{
	"FirstName": FieldFirstName,
	"LastName":  FieldLastName,
	"Email":     FieldEmail,
}

// Validate returns nil when the fields can be saved.
func Validate(f Fields) FieldErrors {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{FieldFirstName: err.Error()}
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		name := fieldNames[fe.StructField()]
		switch fe.Tag() {
		case "required":
			out[name] = MsgRequired
		case "simpleemail":
			out[name] = MsgInvalidEmail
		default:
			out[name] = fe.Error()
		}
	}
	return out
}
