package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := New(CodeValidation, "bad input")
	want := "VALIDATION_ERROR: bad input"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	wrapped := Wrap(CodeInternal, "evaluation failed", fmt.Errorf("boom"))
	want = "INTERNAL_ERROR: evaluation failed: boom"
	if wrapped.Error() != want {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), want)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner")
	err := Wrap(CodeInternal, "outer", inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is() should find the wrapped error")
	}
}

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidRequest, http.StatusBadRequest},
		{CodeMalformedInstance, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeUnsupportedMode, http.StatusNotImplemented},
		{CodeInternal, http.StatusInternalServerError},
		{CodeResultsError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "msg")
			if got := err.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMalformedInstanceError(t *testing.T) {
	err := MalformedInstanceError("missing trajectory").
		WithDetail("video", "vid001").
		WithDetail("instance", "3")

	if !IsMalformedInstance(err) {
		t.Error("IsMalformedInstance() = false")
	}
	if err.Details["video"] != "vid001" || err.Details["instance"] != "3" {
		t.Errorf("Details = %v", err.Details)
	}
}

func TestUnsupportedModeError(t *testing.T) {
	err := UnsupportedModeError("ground-truth-anchored segment evaluation")

	if !IsUnsupportedMode(err) {
		t.Error("IsUnsupportedMode() = false")
	}
	if err.HTTPStatus() != http.StatusNotImplemented {
		t.Errorf("HTTPStatus() = %d, want 501", err.HTTPStatus())
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NotFoundError("submission")) {
		t.Error("IsNotFound() = false for not found error")
	}
	if IsNotFound(fmt.Errorf("plain")) {
		t.Error("IsNotFound() = true for plain error")
	}
}

func TestWriteError_AppError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, NotFoundError("submission"))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Code != CodeNotFound {
		t.Errorf("Code = %s, want %s", resp.Code, CodeNotFound)
	}
}

func TestWriteError_PlainErrorSanitized(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, fmt.Errorf("secret internal detail"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == "secret internal detail" {
		t.Error("internal error detail leaked to client")
	}
}

func TestWriteErrorWithStatus(t *testing.T) {
	w := httptest.NewRecorder()
	WriteErrorWithStatus(w, http.StatusTooManyRequests, RateLimitedError(1))

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Details["retry_after"] != "1" {
		t.Errorf("Details = %v, want retry_after=1", resp.Details)
	}
}
