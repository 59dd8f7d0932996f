package httperr

import "errors"

// Códigos de negócio do núcleo de regulação.
const (
	CodeValidation        = "validation"
	CodeAccessDenied      = "access_denied"
	CodeNotFound          = "not_found"
	CodeInvalidTransition = "invalid_transition"
	CodeOverbook          = "overbook"
	CodeNoBucket          = "no_bucket"
	CodeTooEarly          = "too_early"
	CodeConflict          = "conflict"
	CodeAuthFailed        = "auth_failed"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
