package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator so service-level validation and
// gin request binding share one rule set.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Read the same tag gin binding does, so request structs carry one
	// set of rules.
	v.SetTagName("binding")
	return &Validator{v: v}
}

func (val *Validator) Validate(obj interface{}) error {
	err := val.v.Struct(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("field %s failed validation rule %q", fe.Field(), fe.Tag())
	}
	return err
}

func (val *Validator) Var(value interface{}, rules string) error {
	return val.v.Var(value, rules)
}
