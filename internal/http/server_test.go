package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lumina/internal/core"
	"lumina/internal/services"
	"lumina/internal/storage/memory"
)

var testNow = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	fin, err := services.Open(context.Background(), store, services.WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("open finance: %v", err)
	}
	srv := NewServer("127.0.0.1:0", fin, nil)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, store
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		if rr := do(t, srv, http.MethodGet, path, ""); rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	_ = srv.Shutdown(context.Background())
	if rr := do(t, srv, http.MethodGet, "/readyz", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz after shutdown = %d", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/api/profile", "")
	for _, h := range []string{"X-Request-ID", "X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("header %s missing", h)
		}
	}
	if !strings.HasPrefix(rr.Header().Get("X-Request-ID"), "req_") {
		t.Errorf("unexpected request id %q", rr.Header().Get("X-Request-ID"))
	}

	tests := []struct {
		name, inbound string
		echoed        bool
	}{
		{"well formed", "trace-42", true},
		{"header injection", "a b\r\nX-Evil: 1", false},
		{"too long", strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			req.Header.Set("X-Request-ID", tt.inbound)
			rr := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rr, req)
			got := rr.Header().Get("X-Request-ID")
			if (got == tt.inbound) != tt.echoed {
				t.Errorf("X-Request-ID = %q for inbound %q", got, tt.inbound)
			}
			if !tt.echoed && !strings.HasPrefix(got, "req_") {
				t.Errorf("replacement id = %q", got)
			}
		})
	}
}

func TestOnboardingFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/onboarding", `{"name":"","currency":"USD"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("blank name status = %d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/api/onboarding", `{"name":"Ana","currency":"EUR","initialBalance":"1000"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("onboarding status = %d: %s", rr.Code, rr.Body.String())
	}
	var p core.UserProfile
	decode(t, rr, &p)
	if !p.IsOnboarded || p.Theme != core.Dark || p.Currency != "EUR" || p.InitialBalance.Cents != 100000 {
		t.Fatalf("profile = %+v", p)
	}

	rr = do(t, srv, http.MethodPost, "/api/profile/theme", "")
	decode(t, rr, &p)
	if p.Theme != core.Light {
		t.Fatalf("theme after toggle = %s", p.Theme)
	}

	rr = do(t, srv, http.MethodPatch, "/api/profile", `{"monthlyBudget":"400"}`)
	decode(t, rr, &p)
	if p.MonthlyBudget.Cents != 40000 || p.Name != "Ana" {
		t.Fatalf("patched profile = %+v", p)
	}

	rr = do(t, srv, http.MethodPatch, "/api/profile", "\n  {\"monthlyBudget\": 250, \"name\": \"Bea\"}")
	decode(t, rr, &p)
	if p.MonthlyBudget.Cents != 25000 || p.Name != "Bea" {
		t.Fatalf("indented patch ignored: %+v", p)
	}

	if rr := do(t, srv, http.MethodPatch, "/api/profile", `{"currency":"XYZ"}`); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid currency status = %d", rr.Code)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv, store := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/transactions", `{"amount":"10","type":"expense","category":"Food","date":"2025-03-01"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		Transaction struct {
			ID      string `json:"id"`
			Display string `json:"display"`
		} `json:"transaction"`
		Warning string `json:"warning"`
	}
	decode(t, rr, &created)
	if created.Transaction.ID == "" || created.Warning != "" {
		t.Fatalf("created = %+v", created)
	}
	if created.Transaction.Display != "-$10.00" {
		t.Errorf("display = %q", created.Transaction.Display)
	}

	do(t, srv, http.MethodPost, "/api/transactions", `{"amount":5,"type":"expense","category":"Food"}`)
	do(t, srv, http.MethodPost, "/api/transactions", `{"amount":20,"type":"expense","category":"Transport"}`)
	do(t, srv, http.MethodPost, "/api/transactions", `{"amount":100,"type":"income","category":"Salary"}`)

	if rr := do(t, srv, http.MethodPost, "/api/transactions", `{"amount":1,"type":"loan"}`); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid type status = %d", rr.Code)
	}

	var list struct {
		Transactions []core.Transaction `json:"transactions"`
		Count        int                `json:"count"`
	}
	decode(t, do(t, srv, http.MethodGet, "/api/transactions?type=expense&limit=2", ""), &list)
	if list.Count != 2 || list.Transactions[0].Category != "Transport" {
		t.Fatalf("filtered list = %+v", list)
	}
	decode(t, do(t, srv, http.MethodGet, "/api/transactions?category=Food", ""), &list)
	if list.Count != 2 {
		t.Fatalf("category filter count = %d", list.Count)
	}

	var breakdown struct {
		Total  float64 `json:"total"`
		Groups []struct {
			Category   string  `json:"category"`
			Total      float64 `json:"total"`
			Count      int     `json:"count"`
			Percentage float64 `json:"percentage"`
		} `json:"groups"`
	}
	decode(t, do(t, srv, http.MethodGet, "/api/breakdown?type=expense", ""), &breakdown)
	if len(breakdown.Groups) != 2 || breakdown.Groups[0].Category != "Transport" || breakdown.Groups[1].Count != 2 {
		t.Fatalf("breakdown = %+v", breakdown)
	}
	if breakdown.Total != 35 {
		t.Errorf("breakdown total = %v", breakdown.Total)
	}

	var one transactionView
	decode(t, do(t, srv, http.MethodGet, "/api/transactions/"+created.Transaction.ID, ""), &one)
	if one.Category != "Food" || one.Amount.Cents != 1000 {
		t.Fatalf("get transaction = %+v", one)
	}
	if rr := do(t, srv, http.MethodGet, "/api/transactions/not-there", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown get status = %d", rr.Code)
	}

	writes := store.Writes()
	if rr := do(t, srv, http.MethodDelete, "/api/transactions/not-there", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("unknown delete status = %d", rr.Code)
	}
	if store.Writes() != writes {
		t.Fatal("deleting an unknown id wrote to storage")
	}
	if rr := do(t, srv, http.MethodDelete, "/api/transactions/"+created.Transaction.ID, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	decode(t, do(t, srv, http.MethodGet, "/api/transactions", ""), &list)
	if list.Count != 3 {
		t.Fatalf("count after delete = %d", list.Count)
	}
}

func TestWhitespaceLedJSONBody(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := do(t, srv, http.MethodPost, "/api/transactions", " {\"type\":\"income\",\"amount\":12}")
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
	}
	var list struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	decode(t, do(t, srv, http.MethodGet, "/api/transactions", ""), &list)
	if len(list.Transactions) != 1 || list.Transactions[0].Type != core.Income || list.Transactions[0].Amount.Cents != 1200 {
		t.Fatalf("transactions = %+v", list.Transactions)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/onboarding", `{"name":"Ana","currency":"USD","initialBalance":1000}`)
	do(t, srv, http.MethodPatch, "/api/profile", `{"monthlyBudget":100}`)
	do(t, srv, http.MethodPost, "/api/transactions", `{"amount":500,"type":"income","category":"Salary"}`)
	do(t, srv, http.MethodPost, "/api/transactions", `{"amount":150,"type":"expense","category":"Food"}`)
	do(t, srv, http.MethodPost, "/api/transactions", `{"amount":50,"type":"expense","category":"Food","date":"2025-01-10"}`)

	var sum struct {
		NetWorth        float64 `json:"netWorth"`
		BudgetProgress  float64 `json:"budgetProgress"`
		BudgetRemaining float64 `json:"budgetRemaining"`
		Month           struct {
			Income  float64 `json:"income"`
			Expense float64 `json:"expense"`
		} `json:"month"`
		Display struct {
			NetWorth       string `json:"netWorth"`
			BudgetProgress string `json:"budgetProgress"`
		} `json:"display"`
		Recent []json.RawMessage `json:"recent"`
	}
	decode(t, do(t, srv, http.MethodGet, "/api/summary", ""), &sum)

	if sum.NetWorth != 1300 {
		t.Errorf("netWorth = %v, want 1300", sum.NetWorth)
	}
	if sum.Month.Income != 500 || sum.Month.Expense != 150 {
		t.Errorf("month = %+v", sum.Month)
	}
	if sum.BudgetProgress != 100 || sum.BudgetRemaining != 0 {
		t.Errorf("budget = %v / %v", sum.BudgetProgress, sum.BudgetRemaining)
	}
	if sum.Display.NetWorth != "$1,300" || sum.Display.BudgetProgress != "100.0%" {
		t.Errorf("display = %+v", sum.Display)
	}
	if len(sum.Recent) != 3 {
		t.Errorf("recent = %d", len(sum.Recent))
	}
}

func TestCategoriesAndCurrencies(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/transactions", `{"amount":3,"type":"income","category":"Tips"}`)

	var cats struct {
		Default string   `json:"default"`
		Used    []string `json:"used"`
		All     []string `json:"all"`
	}
	decode(t, do(t, srv, http.MethodGet, "/api/categories?type=income", ""), &cats)
	if cats.Default != "Salary" || len(cats.Used) != 1 || cats.All[len(cats.All)-1] != "Tips" {
		t.Fatalf("categories = %+v", cats)
	}
	if rr := do(t, srv, http.MethodGet, "/api/categories?type=nope", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad type status = %d", rr.Code)
	}

	var currencies []core.CurrencyInfo
	decode(t, do(t, srv, http.MethodGet, "/api/currencies", ""), &currencies)
	if len(currencies) != 20 || currencies[0].Code != "USD" {
		t.Fatalf("currencies = %d entries", len(currencies))
	}
}

func TestResetEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/onboarding", `{"name":"Ana"}`)
	do(t, srv, http.MethodPost, "/api/transactions", `{"amount":3,"type":"income"}`)

	if rr := do(t, srv, http.MethodPost, "/api/reset", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d", rr.Code)
	}
	if store.Len() != 0 {
		t.Fatalf("store holds %d records after reset", store.Len())
	}
	var p core.UserProfile
	decode(t, do(t, srv, http.MethodGet, "/api/profile", ""), &p)
	if p.IsOnboarded || p.Name != "" {
		t.Fatalf("profile after reset = %+v", p)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	if rr := do(t, srv, http.MethodPut, "/api/profile", "{}"); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT /api/profile = %d", rr.Code)
	}
}

func TestRateLimitOnWrites(t *testing.T) {
	srv, _ := newTestServer(t)
	var last int
	for i := 0; i <= mutatingRequestsPerMinute; i++ {
		last = do(t, srv, http.MethodPost, "/api/profile/theme", "").Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("request over the limit returned %d", last)
	}
	if rr := do(t, srv, http.MethodGet, "/api/profile", ""); rr.Code != http.StatusOK {
		t.Fatalf("reads must not be limited, got %d", rr.Code)
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		remote, xff, want string
	}{
		{"203.0.113.9:1234", "", "203.0.113.9"},
		{"203.0.113.9:1234", "198.51.100.1", "203.0.113.9"},
		{"127.0.0.1:5555", "198.51.100.1, 10.0.0.1", "198.51.100.1"},
		{"127.0.0.1:5555", "not-an-ip", "127.0.0.1"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tt.remote
		if tt.xff != "" {
			r.Header.Set("X-Forwarded-For", tt.xff)
		}
		if got := extractClientIP(r); got != tt.want {
			t.Errorf("extractClientIP(%s, %q) = %s, want %s", tt.remote, tt.xff, got, tt.want)
		}
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	m := &securityMetrics{}
	if detectSuspiciousRequest(httptest.NewRequest(http.MethodGet, "/api/summary", nil), m) {
		t.Error("normal request flagged")
	}
	if !detectSuspiciousRequest(httptest.NewRequest(http.MethodGet, "/api/../.env", nil), m) {
		t.Error("path traversal not flagged")
	}
	if m.snapshot()["suspicious_requests"] != 1 {
		t.Errorf("metrics = %v", m.snapshot())
	}
}
