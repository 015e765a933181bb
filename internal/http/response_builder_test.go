package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResponseBuilder_JSON(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusCreated).
		Header("X-Test", "yes").
		JSON(map[string]int{"count": 2}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("X-Test") != "yes" {
		t.Error("custom header missing")
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"count":2}` {
		t.Errorf("Body = %q", got)
	}
}

func TestResponseBuilder_NoBody(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().Status(http.StatusNoContent).Write(w)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

func TestResponseBuilder_EncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().JSON(map[string]any{"bad": make(chan int)}).Write(w)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want 500", w.Code)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		builder *ResponseBuilder
		code    int
	}{
		{"bad request", BadRequestError("nope"), http.StatusBadRequest},
		{"unprocessable", UnprocessableEntityError("nope"), http.StatusUnprocessableEntity},
		{"internal", InternalServerError("nope"), http.StatusInternalServerError},
		{"not found", NotFoundError("nope"), http.StatusNotFound},
		{"rate limited", TooManyRequestsError(), http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.code {
				t.Errorf("code = %d, want %d", w.Code, tt.code)
			}
			if !strings.Contains(w.Body.String(), `"error":`) {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}

	w := httptest.NewRecorder()
	TooManyRequestsError().Write(w)
	if w.Header().Get("Retry-After") != "60" {
		t.Error("Retry-After missing")
	}
}
