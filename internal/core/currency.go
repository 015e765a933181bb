package core

import "strings"

// DefaultCurrency is used until the user picks one during onboarding.
const DefaultCurrency CurrencyCode = "USD"

type (
	CurrencyCode string

	// CurrencyInfo describes how a currency is presented to the user.
	CurrencyInfo struct {
		Code   CurrencyCode `json:"code"`
		Symbol string       `json:"symbol"`
		Name   string       `json:"name"`
		Locale string       `json:"locale"`
	}
)

var currencies = []CurrencyInfo{
	{Code: "USD", Symbol: "$", Name: "United States Dollar", Locale: "en-US"},
	{Code: "EUR", Symbol: "€", Name: "Euro", Locale: "de-DE"},
	{Code: "GBP", Symbol: "£", Name: "British Pound", Locale: "en-GB"},
	{Code: "PKR", Symbol: "Rs", Name: "Pakistani Rupee", Locale: "ur-PK"},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee", Locale: "en-IN"},
	{Code: "SAR", Symbol: "﷼", Name: "Saudi Riyal", Locale: "ar-SA"},
	{Code: "AED", Symbol: "dh", Name: "UAE Dirham", Locale: "ar-AE"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Locale: "ja-JP"},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan", Locale: "zh-CN"},
	{Code: "CAD", Symbol: "$", Name: "Canadian Dollar", Locale: "en-CA"},
	{Code: "AUD", Symbol: "$", Name: "Australian Dollar", Locale: "en-AU"},
	{Code: "CHF", Symbol: "Fr", Name: "Swiss Franc", Locale: "de-CH"},
	{Code: "TRY", Symbol: "₺", Name: "Turkish Lira", Locale: "tr-TR"},
	{Code: "RUB", Symbol: "₽", Name: "Russian Ruble", Locale: "ru-RU"},
	{Code: "KRW", Symbol: "₩", Name: "South Korean Won", Locale: "ko-KR"},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real", Locale: "pt-BR"},
	{Code: "ZAR", Symbol: "R", Name: "South African Rand", Locale: "en-ZA"},
	{Code: "SGD", Symbol: "$", Name: "Singapore Dollar", Locale: "en-SG"},
	{Code: "MXN", Symbol: "$", Name: "Mexican Peso", Locale: "es-MX"},
	{Code: "NZD", Symbol: "$", Name: "New Zealand Dollar", Locale: "en-NZ"},
}

// Currencies returns the supported currencies in display order.
func Currencies() []CurrencyInfo {
	return append([]CurrencyInfo(nil), currencies...)
}

// LookupCurrency returns the catalog entry for code.
func LookupCurrency(code CurrencyCode) (CurrencyInfo, bool) {
	for _, c := range currencies {
		if c.Code == code {
			return c, true
		}
	}
	return CurrencyInfo{}, false
}

// ParseCurrencyCode normalizes s and checks it against the catalog.
func ParseCurrencyCode(s string) (CurrencyCode, error) {
	code := CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
	if !code.IsValid() {
		return "", ErrInvalidCurrency
	}
	return code, nil
}

func (c CurrencyCode) IsValid() bool {
	_, ok := LookupCurrency(c)
	return ok
}

func (c CurrencyCode) String() string {
	return string(c)
}
