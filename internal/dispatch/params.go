package dispatch

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MaxMessageLength is the longest note the payment service accepts, in characters.
const MaxMessageLength = 2000

// Params holds the validated parameters of one dispatch run.
type Params struct {
	// Amount is the requested amount rounded to cents.
	Amount decimal.Decimal

	// Message is the note attached to every request.
	Message string `validate:"required,notblank,max=2000"`

	// Source is the path of the recipients table.
	Source string

	// WriteRemainder selects whether deferred recipients are saved to a new table.
	WriteRemainder bool
}

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// ValidateParameters checks the message and normalizes amount to 2 decimal
// places. No bound is enforced on the amount itself.
func ValidateParameters(amount float64, message string) (Params, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Params{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	params := Params{
		Amount:  decimal.NewFromFloat(amount).Round(2),
		Message: message,
	}
	if err := getValidator().Struct(params); err != nil {
		return Params{}, formatValidationError(err)
	}
	return params, nil
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	e := validationErrors[0]
	switch e.Tag() {
	case "max":
		return fmt.Errorf("%w: message must be at most %d characters", ErrInvalidMessage, MaxMessageLength)
	case "required", "notblank":
		return fmt.Errorf("%w: message cannot be empty", ErrInvalidMessage)
	default:
		return fmt.Errorf("%w: field %s failed on %s", ErrInvalidMessage, e.Field(), e.Tag())
	}
}
