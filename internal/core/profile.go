package core

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const (
	AvatarSymbol AvatarKind = "symbol"
	AvatarImage  AvatarKind = "image"
)

// legacyAvatarSymbolMax is the longest plain-string avatar still read as a
// symbol when decoding untagged values.
const legacyAvatarSymbolMax = 10

type (
	AvatarKind string

	// Avatar is either a short symbolic token (an emoji) or an image payload
	// such as a data URL.
	Avatar struct {
		Kind  AvatarKind `json:"kind"`
		Value string     `json:"value"`
	}

	// UserProfile holds the local user's configuration.
	UserProfile struct {
		Name           string       `json:"name"`
		Currency       CurrencyCode `json:"currency"`
		InitialBalance Money        `json:"initialBalance"`
		IsOnboarded    bool         `json:"isOnboarded"`
		Theme          Theme        `json:"theme"`
		MonthlyBudget  Money        `json:"monthlyBudget"`
		Avatar         *Avatar      `json:"avatar,omitempty"`
	}

	// ProfilePatch is a partial profile update. Nil fields are left untouched.
	ProfilePatch struct {
		Name           *string       `json:"name,omitempty"`
		Currency       *CurrencyCode `json:"currency,omitempty"`
		InitialBalance *Money        `json:"initialBalance,omitempty"`
		IsOnboarded    *bool         `json:"isOnboarded,omitempty"`
		Theme          *Theme        `json:"theme,omitempty"`
		MonthlyBudget  *Money        `json:"monthlyBudget,omitempty"`
		Avatar         *Avatar       `json:"avatar,omitempty"`
	}
)

// DefaultProfile returns the profile of a user that has not onboarded yet.
func DefaultProfile(currency CurrencyCode) UserProfile {
	if !currency.IsValid() {
		currency = DefaultCurrency
	}
	return UserProfile{
		Name:     "",
		Currency: currency,
		Theme:    Light,
	}
}

// HasBudget reports whether a monthly budget is set. Zero means disabled.
func (p UserProfile) HasBudget() bool {
	return p.MonthlyBudget.Cents > 0
}

// Normalized drops an avatar with no value, which older payloads stored as "".
func (p UserProfile) Normalized() UserProfile {
	if p.Avatar != nil && p.Avatar.Value == "" {
		p.Avatar = nil
	}
	return p
}

// Apply merges the non-nil fields of the patch into p and returns the result.
// An avatar with an empty value clears the avatar.
func (pp ProfilePatch) Apply(p UserProfile) UserProfile {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Currency != nil {
		p.Currency = *pp.Currency
	}
	if pp.InitialBalance != nil {
		p.InitialBalance = *pp.InitialBalance
	}
	if pp.IsOnboarded != nil {
		p.IsOnboarded = *pp.IsOnboarded
	}
	if pp.Theme != nil {
		p.Theme = *pp.Theme
	}
	if pp.MonthlyBudget != nil {
		p.MonthlyBudget = *pp.MonthlyBudget
	}
	if pp.Avatar != nil {
		if pp.Avatar.Value == "" {
			p.Avatar = nil
		} else {
			a := *pp.Avatar
			p.Avatar = &a
		}
	}
	return p
}

// Validate checks the values a caller is about to put in the profile.
// Only the fields present in the patch are inspected.
func (pp ProfilePatch) Validate() error {
	if pp.Name != nil && strings.TrimSpace(*pp.Name) == "" {
		return ErrEmptyName
	}
	if pp.Currency != nil && !pp.Currency.IsValid() {
		return ErrInvalidCurrency
	}
	if pp.Theme != nil && !pp.Theme.IsValid() {
		return ErrInvalidTheme
	}
	if pp.MonthlyBudget != nil && pp.MonthlyBudget.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NewAvatar classifies a raw value. Values up to ten characters are treated
// as symbols, longer ones as images.
func NewAvatar(raw string) Avatar {
	if utf8.RuneCountInString(raw) > legacyAvatarSymbolMax {
		return Avatar{Kind: AvatarImage, Value: raw}
	}
	return Avatar{Kind: AvatarSymbol, Value: raw}
}

func (a Avatar) IsImage() bool {
	return a.Kind == AvatarImage
}

// UnmarshalJSON accepts the tagged object form and the legacy plain string.
func (a *Avatar) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*a = NewAvatar(raw)
		return nil
	}
	type tagged Avatar
	var t tagged
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	if t.Kind != AvatarImage && t.Kind != AvatarSymbol {
		t = tagged(NewAvatar(t.Value))
	}
	*a = Avatar(t)
	return nil
}
