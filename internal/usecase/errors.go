package usecase

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// Error codes surfaced to API clients.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeLeadNotFound       = "LEAD_NOT_FOUND"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUnexpected         = "UNEXPECTED_ERROR"
)

var ErrLeadNotFound = &DomainError{Code: CodeLeadNotFound, Message: "lead not found"}
