package errx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

func TestWrapProviderRateLimit(t *testing.T) {
	err := fmt.Errorf("call failed: %w", &openai.APIError{
		HTTPStatusCode: http.StatusTooManyRequests,
		Message:        "rate limit exceeded",
	})
	wrapped := WrapProvider(err)
	if wrapped.Kind != KindUpstreamTransient {
		t.Errorf("Kind = %v, want KindUpstreamTransient", wrapped.Kind)
	}
	if wrapped.Message != RateLimitedMessage {
		t.Errorf("Message = %q", wrapped.Message)
	}
	if wrapped.HTTPStatus() != http.StatusTooManyRequests {
		t.Errorf("HTTPStatus = %d", wrapped.HTTPStatus())
	}
}

func TestWrapProviderAPIError(t *testing.T) {
	wrapped := WrapProvider(&openai.APIError{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        "model not found",
	})
	if wrapped.Kind != KindUpstreamError {
		t.Errorf("Kind = %v, want KindUpstreamError", wrapped.Kind)
	}
	if wrapped.Message != "Erro na API do provedor: model not found" {
		t.Errorf("Message = %q", wrapped.Message)
	}
	if wrapped.HTTPStatus() != http.StatusBadGateway {
		t.Errorf("HTTPStatus = %d", wrapped.HTTPStatus())
	}
}

func TestWrapProviderTimeout(t *testing.T) {
	wrapped := WrapProvider(fmt.Errorf("generate: %w", context.DeadlineExceeded))
	if wrapped.Kind != KindUpstreamTransient {
		t.Errorf("Kind = %v, want KindUpstreamTransient", wrapped.Kind)
	}
	if wrapped.Message != ConnectionFailedMessage {
		t.Errorf("Message = %q", wrapped.Message)
	}
}

func TestWrapProviderNetError(t *testing.T) {
	wrapped := WrapProvider(&net.OpError{Op: "dial", Err: errors.New("connection refused")})
	if wrapped.Kind != KindUpstreamTransient {
		t.Errorf("Kind = %v, want KindUpstreamTransient", wrapped.Kind)
	}
}

func TestWrapProviderUnknown(t *testing.T) {
	original := errors.New("something odd")
	wrapped := WrapProvider(original)
	if wrapped.Kind != KindUnexpected {
		t.Errorf("Kind = %v, want KindUnexpected", wrapped.Kind)
	}
	if wrapped.Message != SystemErrorMessage {
		t.Errorf("raw error detail must not leak: %q", wrapped.Message)
	}
	if !errors.Is(wrapped, original) {
		t.Error("wrapped error must keep the cause in its chain")
	}
}

func TestWrapProviderNil(t *testing.T) {
	if WrapProvider(nil) != nil {
		t.Error("nil error must wrap to nil")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(New(nil, KindChartInvalid, "x")); got != KindChartInvalid {
		t.Errorf("KindOf = %v", got)
	}
	if got := KindOf(errors.New("plain")); got != KindUnexpected {
		t.Errorf("KindOf(plain) = %v", got)
	}
}
