package errx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// WrapProvider maps chat-completion provider errors to the unified Error
// type. The mapping is exhaustive and mutually exclusive: rate limits and
// transport failures surface as transient, provider error payloads keep
// their detail, and everything else is reported generically instead of
// propagated raw.
func WrapProvider(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return New(err, KindUpstreamTransient, RateLimitedMessage)
		}
		return New(err, KindUpstreamError, fmt.Sprintf("Erro na API do provedor: %s", apiErr.Message))
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return New(err, KindUpstreamTransient, ConnectionFailedMessage)
	}

	return New(err, KindUnexpected, SystemErrorMessage)
}
