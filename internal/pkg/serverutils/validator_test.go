package serverutils

import (
	"errors"
	"strings"
	"testing"

	"catalog-chat-be/internal/dto"
)

func TestValidateRequestPasses(t *testing.T) {
	req := dto.SendChatRequest{SessionId: "abc-123", Message: "hello"}
	if err := ValidateRequest(req); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRequestMissingFields(t *testing.T) {
	err := ValidateRequest(dto.SendChatRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if len(validationErr.Fields) != 2 {
		t.Errorf("fields = %v, want SessionId and Message", validationErr.Fields)
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestValidateRequestSessionIdTooLong(t *testing.T) {
	req := dto.SendChatRequest{
		SessionId: strings.Repeat("x", 65),
		Message:   "hello",
	}
	err := ValidateRequest(req)
	if err == nil {
		t.Fatal("expected validation error for oversized session id")
	}
}
