// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/mmeshcher/eggmarket/internal/model"
)

// Error ошибка валидации входных данных, отдаётся клиенту как 400.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Invalid создаёт ошибку валидации для указанного поля.
func Invalid(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

const (
	msgItemsRequired = "Invalid order data: items are required"
	msgTotalPositive = "Invalid order data: total must be greater than 0"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSubmission проверяет тело заказа и возвращает первую найденную ошибку.
// Порядок проверок: позиции, сумма, затем каждая позиция.
func ValidateSubmission(req *model.SubmitRequest) error {
	if req == nil {
		return Invalid("items", msgItemsRequired)
	}

	if err := validate.Struct(req); err != nil {
		return translate(err)
	}
	if math.IsInf(req.Total, 0) {
		return Invalid("total", msgTotalPositive)
	}

	for i := range req.Items {
		if err := validate.Struct(&req.Items[i]); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				fe := fieldErrs[0]
				switch fe.Field() {
				case "ProductID":
					return Invalid("items", "Invalid order data: item %d has no product id", i+1)
				case "Quantity":
					return Invalid("items", "Invalid order data: item %d quantity must be at least 1", i+1)
				}
			}
			return Invalid("items", "Invalid order data: item %d is invalid", i+1)
		}
	}

	return nil
}

func translate(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate submission: %w", err)
	}

	switch fieldErrs[0].Field() {
	case "Items":
		return Invalid("items", msgItemsRequired)
	case "Total":
		return Invalid("total", msgTotalPositive)
	default:
		return Invalid(fieldErrs[0].Field(), "Invalid order data: %s", fieldErrs[0].Field())
	}
}
