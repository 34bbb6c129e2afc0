// Package validate создаёт общий валидатор запросов с правилами магазина и
// переводит ошибки валидации в читаемые сообщения.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/junimo-store/internal/lib/run"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)

// New возвращает валидатор с зарегистрированными тегами run, phone, order_status и role.
func New() *validator.Validate {
	v := validator.New()
	mustRegister(v, "run", func(fl validator.FieldLevel) bool {
		return run.Validate(run.Normalize(fl.Field().String()))
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "order_status", func(fl validator.FieldLevel) bool {
		return models.IsValidOrderStatus(fl.Field().String())
	})
	mustRegister(v, "role", func(fl validator.FieldLevel) bool {
		return models.IsValidRole(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %s: %v", tag, err))
	}
}

// Message переводит ошибку валидатора в строку вида "field name is required, ...".
// Для прочих ошибок возвращает их текст.
func Message(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		field := strings.ToLower(e.Field())
		switch e.ActualTag() {
		case "required", "required_without":
			msgs = append(msgs, fmt.Sprintf("field %s is required", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s is not a valid email", field))
		case "run":
			msgs = append(msgs, fmt.Sprintf("field %s is not a valid RUN", field))
		case "phone":
			msgs = append(msgs, fmt.Sprintf("field %s is not a valid phone", field))
		case "order_status", "role", "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s has an unsupported value", field))
		case "min", "gte", "gt":
			msgs = append(msgs, fmt.Sprintf("field %s is too small", field))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("field %s is too long", field))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", field))
		}
	}
	return strings.Join(msgs, ", ")
}
