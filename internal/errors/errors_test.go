package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := NewInvalidImageError("unrecognized image format", nil)
	if !strings.Contains(err.Error(), "invalid_image") {
		t.Errorf("Expected error type in message, got %s", err.Error())
	}

	cause := fmt.Errorf("unexpected EOF")
	wrapped := NewInvalidImageError("corrupt image data", cause)
	if !strings.Contains(wrapped.Error(), "unexpected EOF") {
		t.Errorf("Expected cause in message, got %s", wrapped.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewNetworkError("matting endpoint unreachable", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
}

func TestErrorConstructors(t *testing.T) {
	testCases := []struct {
		name       string
		err        *AppError
		errType    ErrorType
		statusCode int
	}{
		{"Validation", NewValidationError("bad upload", nil), ErrorTypeValidation, http.StatusBadRequest},
		{"Invalid image", NewInvalidImageError("not an image", nil), ErrorTypeInvalidImage, http.StatusBadRequest},
		{"Detection unavailable", NewDetectionUnavailableError("cascade missing", nil), ErrorTypeDetectionUnavailable, http.StatusServiceUnavailable},
		{"Processing", NewProcessingError("stage failed", nil), ErrorTypeProcessing, http.StatusUnprocessableEntity},
		{"Network", NewNetworkError("timeout", nil), ErrorTypeNetwork, http.StatusBadGateway},
		{"Internal", NewInternalError("encode failed", nil), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Type != tc.errType {
				t.Errorf("Expected type %s, got %s", tc.errType, tc.err.Type)
			}
			if tc.err.StatusCode != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, tc.err.StatusCode)
			}
			if !IsType(tc.err, tc.errType) {
				t.Error("Expected IsType to match")
			}
		})
	}
}

func TestIsType_NonAppError(t *testing.T) {
	if IsType(fmt.Errorf("plain error"), ErrorTypeInternal) {
		t.Error("Expected plain errors not to match any type")
	}
}

func TestGetStatusCode(t *testing.T) {
	if got := GetStatusCode(NewValidationError("bad", nil)); got != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", got)
	}
	if got := GetStatusCode(fmt.Errorf("plain error")); got != http.StatusInternalServerError {
		t.Errorf("Expected 500 fallback, got %d", got)
	}
}
