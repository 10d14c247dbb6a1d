package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure into the taxonomy every externally-facing
// operation reports through. All kinds are non-fatal to the process and
// scoped to the current user action.
type Kind int

const (
	// KindUnexpected covers anything the other kinds do not.
	KindUnexpected Kind = iota
	// KindConfiguration means the pipeline is unusable (e.g. missing API key).
	KindConfiguration
	// KindInputRejected means the input guard refused the user text.
	KindInputRejected
	// KindUpstreamTransient covers provider rate limits and connection
	// failures; retryable by the user later, never auto-retried.
	KindUpstreamTransient
	// KindUpstreamError means the provider returned an error payload.
	KindUpstreamError
	// KindChartInvalid means the requested chart cannot be built from the
	// selected columns.
	KindChartInvalid
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "Ocorreu um erro inesperado. Tente novamente."
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "falha na operação do armazenamento de sessão"
	// RedisNotFoundMessage describes a missing session key.
	RedisNotFoundMessage = "sessão não encontrada"
	// RateLimitedMessage is shown when the provider rejects for rate limiting.
	RateLimitedMessage = "Limite de requisições da API atingido. Tente mais tarde."
	// ConnectionFailedMessage is shown on transport failures to the provider.
	ConnectionFailedMessage = "Erro de conexão com a API do provedor. Verifique sua rede."
	// PipelineDisabledMessage is shown when credentials are absent.
	PipelineDisabledMessage = "Cliente do provedor não inicializado. Verifique a chave da API."
)

// Error wraps an underlying error with a taxonomy kind and a safe,
// user-facing message.
type Error struct {
	Err     error
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the provided information.
func New(err error, kind Kind, message string) *Error {
	return &Error{
		Err:     err,
		Kind:    kind,
		Message: message,
	}
}

// HTTPStatus maps the kind to the status the HTTP layer should answer with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindConfiguration:
		return http.StatusServiceUnavailable
	case KindInputRejected, KindChartInvalid:
		return http.StatusUnprocessableEntity
	case KindUpstreamTransient:
		return http.StatusTooManyRequests
	case KindUpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Is reports whether the target matches the underlying error or the Error itself.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to Error or the wrapped error in a chain.
func (e *Error) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**Error); ok {
		*t = e
		return true
	}
	return false
}

// KindOf extracts the taxonomy kind from any error. Errors that never went
// through this package count as unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
