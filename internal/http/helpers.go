package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

const requestIDHeader = "X-Request-ID"

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// requestID returns the caller's X-Request-ID when it is well formed and
// otherwise assigns a new one. The chosen ID is stored back on the request
// header so handlers can echo it.
func requestID(r *http.Request) string {
	id := r.Header.Get(requestIDHeader)
	if !validRequestID.MatchString(id) {
		id = generateRequestID()
		r.Header.Set(requestIDHeader, id)
	}
	return id
}
