// Package http provides the local JSON API over the finance core.
//
// This file implements utilities for reading request data. Bodies may be
// JSON or form-encoded; numeric fields that fail to parse are coerced to zero.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lumina/internal/core"
)

// maxBodyBytes bounds request bodies. Image avatars are sent inline as data
// URLs, so this is larger than the other fields would need.
const maxBodyBytes = 2 << 20

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(r.Body)
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := bytes.TrimSpace(p.body)
	if len(body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' || body[0] == '[' || p.declaresJSON() {
		if body[0] != '{' {
			p.err = errors.New("request body must be an object")
			return p.err
		}
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

func (p *RequestBodyParser) declaresJSON() bool {
	mt, _, err := mime.ParseMediaType(p.contentType)
	return err == nil && (mt == "application/json" || strings.HasSuffix(mt, "+json"))
}

// Has reports whether key was sent at all, even with an empty value.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Raw returns the decoded JSON value for key, or nil for form bodies.
func (p *RequestBodyParser) Raw(key string) any {
	if p.jsonData == nil {
		return nil
	}
	return p.jsonData[key]
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// boolValue reads true/false from JSON booleans and common form spellings.
func boolValue(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

// ParseTransactionInput reads a new transaction. A missing category takes the
// default for the type, a missing date is today.
func ParseTransactionInput(p *RequestBodyParser, now time.Time) (core.TransactionInput, error) {
	t, err := core.ParseTransactionType(p.Get("type"))
	if err != nil {
		return core.TransactionInput{}, err
	}

	in := core.TransactionInput{
		Amount:   core.ParseAmount(p.Get("amount")),
		Type:     t,
		Category: p.Get("category"),
		Note:     p.Get("note"),
		Date:     now,
	}
	if in.Category == "" {
		in.Category = core.DefaultCategory(t)
	}
	if v := p.Get("date"); v != "" {
		d, err := core.ParseDate(v, now.Location())
		if err != nil {
			return core.TransactionInput{}, err
		}
		in.Date = d
	}
	return in, in.Validate()
}

// ParseProfilePatch builds a patch from the fields present in the body.
func ParseProfilePatch(p *RequestBodyParser) core.ProfilePatch {
	var patch core.ProfilePatch
	if p.Has("name") {
		v := p.Get("name")
		patch.Name = &v
	}
	if p.Has("currency") {
		v := core.CurrencyCode(strings.ToUpper(p.Get("currency")))
		patch.Currency = &v
	}
	if p.Has("initialBalance") {
		v := core.ParseBalance(p.Get("initialBalance"))
		patch.InitialBalance = &v
	}
	if p.Has("monthlyBudget") {
		v := core.ParseAmount(p.Get("monthlyBudget"))
		patch.MonthlyBudget = &v
	}
	if p.Has("theme") {
		v := core.Theme(strings.ToLower(p.Get("theme")))
		patch.Theme = &v
	}
	if p.Has("isOnboarded") {
		v := boolValue(p.Get("isOnboarded"))
		patch.IsOnboarded = &v
	}
	if p.Has("avatar") {
		a := parseAvatar(p)
		patch.Avatar = &a
	}
	return patch
}

// parseAvatar accepts the tagged object or a plain string value.
func parseAvatar(p *RequestBodyParser) core.Avatar {
	if obj, ok := p.Raw("avatar").(map[string]any); ok {
		value, _ := obj["value"].(string)
		kind, _ := obj["kind"].(string)
		switch core.AvatarKind(kind) {
		case core.AvatarSymbol, core.AvatarImage:
			return core.Avatar{Kind: core.AvatarKind(kind), Value: value}
		default:
			return core.NewAvatar(value)
		}
	}
	return core.NewAvatar(p.Get("avatar"))
}

// OnboardingInput is the first-run form.
type OnboardingInput struct {
	Name           string
	Currency       core.CurrencyCode
	InitialBalance core.Money
}

// ParseOnboarding reads and validates the onboarding form.
func ParseOnboarding(p *RequestBodyParser) (OnboardingInput, error) {
	in := OnboardingInput{
		Name:           p.Get("name"),
		Currency:       core.CurrencyCode(strings.ToUpper(p.Get("currency"))),
		InitialBalance: core.ParseBalance(p.Get("initialBalance")),
	}
	if in.Name == "" {
		return in, core.ErrEmptyName
	}
	if in.Currency == "" {
		in.Currency = core.DefaultCurrency
	}
	if !in.Currency.IsValid() {
		return in, core.ErrInvalidCurrency
	}
	return in, nil
}

// ParseFilter reads type and category filters from the query string. An
// empty value or "all" disables that filter.
func ParseFilter(query url.Values) (core.TransactionFilter, error) {
	var f core.TransactionFilter
	if v := sanitizeInput(query.Get("category")); v != "all" {
		f.Category = v
	}
	if v := strings.TrimSpace(query.Get("type")); v != "" && v != "all" {
		t, err := core.ParseTransactionType(v)
		if err != nil {
			return f, err
		}
		f.Type = t
	}
	return f, nil
}

// ParseLimit reads a positive limit. Anything else means no limit.
func ParseLimit(query url.Values) int {
	n, err := strconv.Atoi(strings.TrimSpace(query.Get("limit")))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseTypeParam reads the type query parameter, defaulting to expense.
func ParseTypeParam(query url.Values) (core.TransactionType, error) {
	v := strings.TrimSpace(query.Get("type"))
	if v == "" {
		return core.Expense, nil
	}
	return core.ParseTransactionType(v)
}
