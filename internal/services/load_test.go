package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"lumina/internal/core"
	"lumina/internal/log"
	"lumina/internal/storage"
	"lumina/internal/storage/memory"
)

// unreadableStore fails every read.
type unreadableStore struct {
	*memory.Store
}

func (unreadableStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("io error")
}

// captureLogs returns a debug-level JSON logger and a func that decodes the
// lines written so far.
func captureLogs(t *testing.T) (*log.Logger, func() []map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.New(log.Config{Format: log.FormatJSON, Output: &buf, Level: slog.LevelDebug, Component: log.ComponentApp})
	return logger, func() []map[string]any {
		var lines []map[string]any
		for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
			if len(line) == 0 {
				continue
			}
			var m map[string]any
			if err := json.Unmarshal(line, &m); err != nil {
				t.Fatalf("log line %q: %v", line, err)
			}
			lines = append(lines, m)
		}
		return lines
	}
}

func TestLoadFailuresAreClassified(t *testing.T) {
	tests := []struct {
		name      string
		load      func(storage.Store, *log.Logger)
		store     storage.Store
		component string
		op        string
		errorType string
		record    string
	}{
		{
			name:      "corrupt transactions",
			load:      func(s storage.Store, l *log.Logger) { LoadLedger(context.Background(), s, l) },
			store:     memory.NewWithRecords(map[string]string{storage.TransactionsKey: "{not json"}),
			component: log.ComponentLedger,
			op:        log.OpLoad,
			errorType: log.ErrorTypeCorruptData,
			record:    storage.TransactionsKey,
		},
		{
			name:      "unreadable transactions",
			load:      func(s storage.Store, l *log.Logger) { LoadLedger(context.Background(), s, l) },
			store:     unreadableStore{memory.New()},
			component: log.ComponentLedger,
			op:        log.OpRead,
			errorType: log.ErrorTypeStorage,
			record:    storage.TransactionsKey,
		},
		{
			name: "corrupt profile",
			load: func(s storage.Store, l *log.Logger) {
				LoadProfileStore(context.Background(), s, core.DefaultCurrency, l)
			},
			store:     memory.NewWithRecords(map[string]string{storage.ProfileKey: `{"name":`}),
			component: log.ComponentProfile,
			op:        log.OpLoad,
			errorType: log.ErrorTypeCorruptData,
			record:    storage.ProfileKey,
		},
		{
			name: "unreadable profile",
			load: func(s storage.Store, l *log.Logger) {
				LoadProfileStore(context.Background(), s, core.DefaultCurrency, l)
			},
			store:     unreadableStore{memory.New()},
			component: log.ComponentProfile,
			op:        log.OpRead,
			errorType: log.ErrorTypeStorage,
			record:    storage.ProfileKey,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, lines := captureLogs(t)
			tt.load(tt.store, logger)

			var warn map[string]any
			for _, l := range lines() {
				if l["level"] == "WARN" {
					warn = l
				}
			}
			if warn == nil {
				t.Fatalf("no warning logged: %v", lines())
			}
			for key, want := range map[string]string{
				log.FieldComponent: tt.component,
				log.FieldOperation: tt.op,
				log.FieldErrorType: tt.errorType,
				log.FieldRecordKey: tt.record,
			} {
				if got := warn[key]; got != want {
					t.Errorf("%s = %v, want %q", key, got, want)
				}
			}
		})
	}
}

func TestProfileLoadLogsCurrency(t *testing.T) {
	logger, lines := captureLogs(t)
	store := memory.NewWithRecords(map[string]string{storage.ProfileKey: `{"name":"Kim","currency":"GBP"}`})
	LoadProfileStore(context.Background(), store, core.DefaultCurrency, logger)

	for _, l := range lines() {
		if l["msg"] == "Profile loaded" {
			if l[log.FieldCurrency] != "GBP" {
				t.Fatalf("currency = %v, want GBP", l[log.FieldCurrency])
			}
			return
		}
	}
	t.Fatal("profile load not logged")
}

func TestLegacyDatesFollowClockLocation(t *testing.T) {
	zone := time.FixedZone("UTC-10", -10*3600)
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, zone)
	raw := `[{"id":"a","amount":10,"type":"income","category":"Salary","date":"2025-04-01"},` +
		`{"id":"b","amount":4,"type":"expense","category":"Food","date":"2025-03-31"}]`
	store := memory.NewWithRecords(map[string]string{storage.TransactionsKey: raw})

	f, err := Open(context.Background(), store, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	want := core.MonthlyStats{Income: core.NewMoney(10)}
	if got := f.MonthlyStats(); got != want {
		t.Fatalf("monthly = %+v, want %+v", got, want)
	}

	l := LoadLedgerIn(context.Background(), store, zone, nil)
	if got := l.All()[0].Date; !got.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, zone)) {
		t.Fatalf("date = %v, want midnight April 1 in %s", got, zone)
	}
}
