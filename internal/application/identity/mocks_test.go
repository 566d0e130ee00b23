package identity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/idlink-io/idlink/internal/domain/account"
	"github.com/idlink-io/idlink/internal/infrastructure/cache"
	"github.com/idlink-io/idlink/internal/shared/errors"
	"github.com/idlink-io/idlink/internal/shared/logger"
)

func quietLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// =====================================================================
// In-memory directory
// =====================================================================

type fakeDirectory struct {
	mu         sync.Mutex
	accounts   map[uint]*account.Account
	identities map[string]*account.ExternalIdentity // keyed provider|externalID
	nextID     uint

	// error injection
	findIdentityErr error
	findByEmailErr  error
	countErr        error
	createErr       error
	upsertErr       error
	updateErr       error
	loadErr         error

	writes int // create + upsert + update calls
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		accounts:   make(map[uint]*account.Account),
		identities: make(map[string]*account.ExternalIdentity),
		nextID:     1,
	}
}

func identityKey(provider, externalID string) string {
	return provider + "|" + externalID
}

func (d *fakeDirectory) seedAccount(acc *account.Account) *account.Account {
	d.mu.Lock()
	defer d.mu.Unlock()
	if acc.ID == 0 {
		acc.ID = d.nextID
		d.nextID++
	}
	d.accounts[acc.ID] = acc
	return acc
}

func (d *fakeDirectory) seedIdentity(identity *account.ExternalIdentity) *account.ExternalIdentity {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.identities[identityKey(identity.Provider, identity.ExternalID)] = identity
	return identity
}

func (d *fakeDirectory) FindIdentity(ctx context.Context, provider, externalID string) (*account.ExternalIdentity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.findIdentityErr != nil {
		return nil, d.findIdentityErr
	}
	identity, ok := d.identities[identityKey(provider, externalID)]
	if !ok {
		return nil, nil
	}
	copied := *identity
	return &copied, nil
}

func (d *fakeDirectory) FindUnlinkedAccountsByEmail(ctx context.Context, email, provider string) ([]*account.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.findByEmailErr != nil {
		return nil, d.findByEmailErr
	}
	var result []*account.Account
	for _, acc := range d.accounts {
		if acc.Email != email {
			continue
		}
		linked := false
		for _, identity := range d.identities {
			if identity.AccountID == acc.ID && identity.Provider == provider {
				linked = true
				break
			}
		}
		if !linked {
			result = append(result, acc)
		}
	}
	return result, nil
}

func (d *fakeDirectory) CountAccountsByUsername(ctx context.Context, username string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.countErr != nil {
		return 0, d.countErr
	}
	var count int64
	for _, acc := range d.accounts {
		if acc.Username == username {
			count++
		}
	}
	return count, nil
}

func (d *fakeDirectory) CreateAccountWithIdentity(ctx context.Context, acc *account.Account, identity *account.ExternalIdentity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes++
	if d.createErr != nil {
		return d.createErr
	}
	if _, ok := d.identities[identityKey(identity.Provider, identity.ExternalID)]; ok {
		return errors.NewConflictError("identity already exists")
	}
	for _, existing := range d.accounts {
		if existing.Username == acc.Username {
			return errors.NewConflictError("username already exists")
		}
		if existing.ReferralCode == acc.ReferralCode {
			return errors.NewConflictError("referral code already exists")
		}
	}
	acc.ID = d.nextID
	d.nextID++
	identity.AccountID = acc.ID
	d.accounts[acc.ID] = acc
	d.identities[identityKey(identity.Provider, identity.ExternalID)] = identity
	return nil
}

func (d *fakeDirectory) UpsertIdentity(ctx context.Context, identity *account.ExternalIdentity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes++
	if d.upsertErr != nil {
		return d.upsertErr
	}
	key := identityKey(identity.Provider, identity.ExternalID)
	if existing, ok := d.identities[key]; ok {
		existing.AccessToken = identity.AccessToken
		existing.AccessTokenSecret = identity.AccessTokenSecret
		existing.DisplayHandle = identity.DisplayHandle
		existing.AccountID = identity.AccountID
		return nil
	}
	copied := *identity
	d.identities[key] = &copied
	return nil
}

func (d *fakeDirectory) UpdateIdentity(ctx context.Context, identity *account.ExternalIdentity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes++
	if d.updateErr != nil {
		return d.updateErr
	}
	key := identityKey(identity.Provider, identity.ExternalID)
	if _, ok := d.identities[key]; !ok {
		return errors.NewNotFoundError("external identity not found")
	}
	copied := *identity
	d.identities[key] = &copied
	return nil
}

func (d *fakeDirectory) LoadAccount(ctx context.Context, id uint) (*account.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loadErr != nil {
		return nil, d.loadErr
	}
	acc, ok := d.accounts[id]
	if !ok {
		return nil, errors.NewNotFoundError("account not found")
	}
	return acc, nil
}

// =====================================================================
// Side-effect stubs
// =====================================================================

type stubAnalytics struct {
	mu     sync.Mutex
	events [][3]string
	panics bool
}

func (a *stubAnalytics) RecordEvent(category, action, label string) {
	if a.panics {
		panic("analytics backend unavailable")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, [3]string{category, action, label})
}

func (a *stubAnalytics) recorded() [][3]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.events
}

type stubTelemetry struct {
	mu       sync.Mutex
	captured []error
}

func (t *stubTelemetry) CaptureException(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.captured = append(t.captured, err)
}

func (t *stubTelemetry) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.captured)
}

type stubMarker struct {
	mu    sync.Mutex
	marks int
}

func (m *stubMarker) MarkNewSignup(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks++
}

func (m *stubMarker) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.marks
}

// =====================================================================
// Handshake stubs
// =====================================================================

type stubOAuthClient struct {
	authURL      string
	codeVerifier string
	authErr      error
	token        TokenMaterial
	exchangeErr  error
	profile      *Profile
	profileErr   error
}

func (c *stubOAuthClient) GetAuthURL(state string) (string, string, error) {
	if c.authErr != nil {
		return "", "", c.authErr
	}
	return c.authURL + "?state=" + state, c.codeVerifier, nil
}

func (c *stubOAuthClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (TokenMaterial, error) {
	if c.exchangeErr != nil {
		return TokenMaterial{}, c.exchangeErr
	}
	return c.token, nil
}

func (c *stubOAuthClient) GetProfile(ctx context.Context, token TokenMaterial) (*Profile, error) {
	if c.profileErr != nil {
		return nil, c.profileErr
	}
	return c.profile, nil
}

type memoryStateStore struct {
	mu     sync.Mutex
	states map[string]string
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: make(map[string]string)}
}

func (s *memoryStateStore) Set(ctx context.Context, state string, codeVerifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = codeVerifier
	return nil
}

func (s *memoryStateStore) VerifyAndGet(ctx context.Context, state string) (*cache.StateInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	verifier, ok := s.states[state]
	if !ok {
		return nil, fmt.Errorf("state not found or expired")
	}
	delete(s.states, state)
	return &cache.StateInfo{CodeVerifier: verifier}, nil
}
