// internal/api/handler/response.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"cryptoex/internal/api/types"
	"cryptoex/internal/util" // For custom errors

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultTimeout bounds the handling of a single request.
const DefaultTimeout = 30 * time.Second

// User-facing messages for business errors.
const (
	msgCurrencyExists      = "This cryptocurrency already exists!"
	msgCurrencyNotFound    = "There is no such cryptocurrency!"
	msgUserExists          = "The user already exists!"
	msgUserNotFound        = "There is no such user!"
	msgInsufficientFunds   = "You do not have enough money to make this transaction"
	msgNoSuchHolding       = "You do not have that currency"
	msgInsufficientHolding = "You are trying to sell more currency than you have in your wallet"
	msgStalePrice          = "You are trying to perform an operation at an outdated exchange rate, please try again."
)

// newValidator returns a validator that understands decimal.Decimal fields, so tags such as gt=0 apply to them.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindAndValidate decodes the JSON request body into T and validates it.
func bindAndValidate[T any](v *validator.Validate, r *http.Request) (*T, error) {
	var input T
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", util.ErrInvalidInput)
	}
	if err := validateStruct(v, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

func validateStruct(v *validator.Validate, input interface{}) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return fmt.Errorf("field '%s' failed on '%s': %w", fe.Field(), fe.Tag(), util.ErrInvalidInput)
	}
	return fmt.Errorf("%v: %w", err, util.ErrInvalidInput)
}

// Helper function to send JSON responses.
func (h *ExchangeHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func (h *ExchangeHandler) respondOK(w http.ResponseWriter, data interface{}) {
	h.respondWithJSON(w, http.StatusOK, types.OK(data))
}

// Helper function to send error responses.
func (h *ExchangeHandler) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error() // Use the error message directly for invalid input
	case util.IsError(err, util.ErrCurrencyNotFound):
		statusCode = http.StatusNotFound
		message = msgCurrencyNotFound
	case util.IsError(err, util.ErrUserNotFound), util.IsError(err, util.ErrWalletNotFound):
		statusCode = http.StatusNotFound
		message = msgUserNotFound
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrCurrencyExists):
		statusCode = http.StatusConflict
		message = msgCurrencyExists
	case util.IsError(err, util.ErrUserExists):
		statusCode = http.StatusConflict
		message = msgUserExists
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = "Resource already exists"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusConflict
		message = msgInsufficientFunds
	case util.IsError(err, util.ErrNoSuchHolding):
		statusCode = http.StatusConflict
		message = msgNoSuchHolding
	case util.IsError(err, util.ErrInsufficientHolding):
		statusCode = http.StatusConflict
		message = msgInsufficientHolding
	case util.IsError(err, util.ErrStalePrice):
		statusCode = http.StatusConflict
		message = msgStalePrice
	default:
		h.logger.Error("Unhandled service error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
	}

	h.respondWithJSON(w, statusCode, types.Fail(message))
}
