package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"lumina/internal/core"
	"lumina/internal/log"
	"lumina/internal/storage"
)

// ProfileStore holds the single user profile and writes every change
// through to the store.
type ProfileStore struct {
	mu              sync.RWMutex
	store           storage.Store
	logger          *log.Logger
	defaultCurrency core.CurrencyCode
	profile         core.UserProfile
}

// LoadProfileStore restores the profile record. Stored fields are decoded on
// top of the default profile, so fields added since the record was written
// keep their defaults. A malformed record falls back to the default profile.
func LoadProfileStore(ctx context.Context, store storage.Store, defaultCurrency core.CurrencyCode, logger *log.Logger) *ProfileStore {
	if logger == nil {
		logger = log.Discard()
	}
	if !defaultCurrency.IsValid() {
		defaultCurrency = core.DefaultCurrency
	}
	ps := &ProfileStore{
		store:           store,
		logger:          logger.WithComponent(log.ComponentProfile),
		defaultCurrency: defaultCurrency,
		profile:         core.DefaultProfile(defaultCurrency),
	}

	raw, found, err := store.Get(ctx, storage.ProfileKey)
	switch {
	case err != nil:
		ps.logger.WarnContext(ctx, "Failed to read profile, using defaults", log.NewFields().
			WithOperation(log.OpRead).
			WithRecord(storage.ProfileKey).
			WithError(err).
			WithErrorType(log.ErrorTypeStorage).
			ToSlice()...)
		return ps
	case !found:
		return ps
	}

	p := core.DefaultProfile(defaultCurrency)
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		ps.logger.WarnContext(ctx, "Stored profile is malformed, using defaults", log.NewFields().
			WithOperation(log.OpLoad).
			WithRecord(storage.ProfileKey).
			WithError(err).
			WithErrorType(log.ErrorTypeCorruptData).
			ToSlice()...)
		return ps
	}
	ps.profile = p.Normalized()
	ps.logger.DebugContext(ctx, "Profile loaded", log.NewFields().
		WithOperation(log.OpLoad).
		WithCurrency(string(ps.profile.Currency)).
		ToSlice()...)
	return ps
}

// Get returns a snapshot of the profile.
func (ps *ProfileStore) Get() core.UserProfile {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return clone(ps.profile)
}

// Update merges the patch into the profile and persists the result. Values
// are not validated here; callers use ProfilePatch.Validate when they need to.
func (ps *ProfileStore) Update(ctx context.Context, patch core.ProfilePatch) (core.UserProfile, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.profile = patch.Apply(ps.profile)
	p := clone(ps.profile)
	if err := ps.persistLocked(ctx); err != nil {
		return p, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

// Onboard completes first-run setup in a single update. Onboarding also
// switches the theme to dark.
func (ps *ProfileStore) Onboard(ctx context.Context, name string, currency core.CurrencyCode, initialBalance core.Money) (core.UserProfile, error) {
	onboarded := true
	theme := core.Dark
	return ps.Update(ctx, core.ProfilePatch{
		Name:           &name,
		Currency:       &currency,
		InitialBalance: &initialBalance,
		IsOnboarded:    &onboarded,
		Theme:          &theme,
	})
}

// ToggleTheme flips between light and dark.
func (ps *ProfileStore) ToggleTheme(ctx context.Context) (core.UserProfile, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.profile.Theme = ps.profile.Theme.Toggled()
	p := clone(ps.profile)
	if err := ps.persistLocked(ctx); err != nil {
		return p, fmt.Errorf("toggle theme: %w", err)
	}
	return p, nil
}

// Reset restores the default profile and erases the stored record.
func (ps *ProfileStore) Reset(ctx context.Context) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.profile = core.DefaultProfile(ps.defaultCurrency)
	if err := ps.store.Delete(ctx, storage.ProfileKey); err != nil {
		return fmt.Errorf("reset profile: %w", err)
	}
	return nil
}

func (ps *ProfileStore) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(ps.profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := ps.store.Set(ctx, storage.ProfileKey, string(data)); err != nil {
		ps.logger.ErrorContext(ctx, "Failed to persist profile",
			log.NewFields().
			WithOperation(log.OpPersist).
			WithRecord(storage.ProfileKey).
			WithError(err).
			WithErrorType(log.ErrorTypeStorage).
			ToSlice()...)
		return err
	}
	return nil
}

// clone copies the avatar so callers cannot mutate shared state.
func clone(p core.UserProfile) core.UserProfile {
	if p.Avatar != nil {
		a := *p.Avatar
		p.Avatar = &a
	}
	return p
}
