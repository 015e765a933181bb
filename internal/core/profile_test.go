package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile("")
	if p.Name != "" || p.Currency != DefaultCurrency || p.IsOnboarded || p.Theme != Light ||
		!p.InitialBalance.IsZero() || !p.MonthlyBudget.IsZero() || p.Avatar != nil {
		t.Fatalf("unexpected default profile: %+v", p)
	}
	if got := DefaultProfile("EUR").Currency; got != "EUR" {
		t.Fatalf("expected EUR default, got %q", got)
	}
	if got := DefaultProfile("XYZ").Currency; got != DefaultCurrency {
		t.Fatalf("invalid currency must fall back, got %q", got)
	}
}

func TestProfilePatchApply(t *testing.T) {
	base := UserProfile{
		Name:          "Alex",
		Currency:      "USD",
		Theme:         Dark,
		MonthlyBudget: Money{Cents: 50000},
		Avatar:        &Avatar{Kind: AvatarSymbol, Value: "🚀"},
	}
	name := "Sam"
	budget := Money{Cents: 0}
	got := ProfilePatch{Name: &name, MonthlyBudget: &budget}.Apply(base)

	if got.Name != "Sam" || !got.MonthlyBudget.IsZero() {
		t.Fatalf("patched fields not applied: %+v", got)
	}
	if got.Currency != "USD" || got.Theme != Dark || got.Avatar == nil || got.Avatar.Value != "🚀" {
		t.Fatalf("omitted fields must be retained: %+v", got)
	}
	if base.Name != "Alex" {
		t.Fatalf("Apply must not mutate its argument")
	}

	cleared := ProfilePatch{Avatar: &Avatar{}}.Apply(base)
	if cleared.Avatar != nil {
		t.Fatalf("empty avatar should clear, got %+v", cleared.Avatar)
	}
}

func TestProfilePatchValidate(t *testing.T) {
	empty := " "
	bad := CurrencyCode("XXX")
	theme := Theme("sepia")
	neg := Money{Cents: -1}
	for i, pp := range []ProfilePatch{
		{Name: &empty},
		{Currency: &bad},
		{Theme: &theme},
		{MonthlyBudget: &neg},
	} {
		if err := pp.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
	if err := (ProfilePatch{}).Validate(); err != nil {
		t.Fatalf("empty patch should be valid: %v", err)
	}
}

func TestProfileDecodeOntoDefaults(t *testing.T) {
	p := DefaultProfile("")
	// Older payloads predate the budget and theme fields.
	stored := `{"name":"Alex","currency":"GBP","initialBalance":250.75,"isOnboarded":true,"avatar":""}`
	if err := json.Unmarshal([]byte(stored), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p = p.Normalized()
	if p.Name != "Alex" || p.Currency != "GBP" || p.InitialBalance.Cents != 25075 || !p.IsOnboarded {
		t.Fatalf("stored fields lost: %+v", p)
	}
	if p.Theme != Light || !p.MonthlyBudget.IsZero() {
		t.Fatalf("absent fields must keep defaults: %+v", p)
	}
	if p.Avatar != nil {
		t.Fatalf("empty legacy avatar should normalize to nil")
	}
}

func TestAvatarJSON(t *testing.T) {
	var a Avatar
	if err := json.Unmarshal([]byte(`"🐱"`), &a); err != nil || a.Kind != AvatarSymbol {
		t.Fatalf("legacy symbol: %+v err=%v", a, err)
	}
	img := "data:image/png;base64," + strings.Repeat("A", 40)
	if err := json.Unmarshal([]byte(`"`+img+`"`), &a); err != nil || !a.IsImage() {
		t.Fatalf("legacy image: %+v err=%v", a, err)
	}
	if err := json.Unmarshal([]byte(`{"kind":"symbol","value":"long-but-tagged-symbol"}`), &a); err != nil || a.Kind != AvatarSymbol {
		t.Fatalf("tagged value must keep its kind: %+v err=%v", a, err)
	}

	b, err := json.Marshal(Avatar{Kind: AvatarImage, Value: "x"})
	if err != nil || string(b) != `{"kind":"image","value":"x"}` {
		t.Fatalf("marshal: %s err=%v", b, err)
	}
}
