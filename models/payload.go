package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type PlanPayload struct {
	UserID    uint   `json:"user_id" validate:"required"`
	ProjectID uint   `json:"project_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (p *PlanPayload) Validate() error {
	return validationError(validate.Struct(p))
}

type ActualPayload struct {
	UserID      uint    `json:"user_id" validate:"required"`
	ProjectID   uint    `json:"project_id" validate:"required"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	HoursWorked float64 `json:"hours_worked" validate:"gt=0,lte=24"`
	UserText    string  `json:"user_text" validate:"min=10,max=1000"`
}

func (a *ActualPayload) Validate() error {
	a.UserText = strings.TrimSpace(a.UserText)
	return validationError(validate.Struct(a))
}

type LoginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (l *LoginPayload) Validate() error {
	return validationError(validate.Struct(l))
}

var ErrValidation = errors.New("validation failed")

// validationError flattens validator output into one readable error that
// wraps ErrValidation.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}
