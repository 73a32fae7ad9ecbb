package domain

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Entity is implemented by every record kind that goes through the generic
// directory service.
type Entity[T any] interface {
	GetID() string
	WithID(id string) T
	Validate() error
}

var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, ok := ParseDate(fl.Field().String())
		return ok
	})
	return v
})

func validateStruct(v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ErrValidation{Fields: make([]FieldViolation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldViolation{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}

// ValidateID accepts the canonical uuid text form used for every record id.
func ValidateID(id string) error {
	if err := structValidator().Var(id, "required,uuid"); err != nil {
		return ErrInvalidID
	}
	return nil
}
