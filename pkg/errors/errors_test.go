package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAPIErrorUnwrapsCause(t *testing.T) {
	err := fmt.Errorf("acknowledge: %w", NewAPIError("gateway unavailable", 503, nil).WithCause(ErrCircuitOpen))

	if !stderrors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen in chain: %v", err)
	}

	var apiErr *APIError
	if !stderrors.As(err, &apiErr) || apiErr.StatusCode != 503 || apiErr.Code != CodeAPIError {
		t.Fatalf("expected APIError with status 503, got %v", err)
	}
	if got := apiErr.Error(); got != "gateway unavailable: gateway circuit open" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestConfigErrorCarriesKey(t *testing.T) {
	err := fmt.Errorf("load: %w", NewConfigError("DISCORD_TOKEN is missing", "DISCORD_TOKEN"))

	var cfgErr *ConfigError
	if !stderrors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Key != "DISCORD_TOKEN" || cfgErr.Code != CodeConfig {
		t.Fatalf("unexpected config error %+v", cfgErr)
	}
}
