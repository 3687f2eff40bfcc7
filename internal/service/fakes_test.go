package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"github.com/rubbishit/backend/internal/domain"
)

// memStore backs the in-memory repositories. A transaction holds txMu for
// its whole duration and restores a snapshot when fn fails.
type memStore struct {
	txMu sync.Mutex

	mu       sync.Mutex
	accounts []domain.Account
	codes    []domain.VerificationCode
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	accounts := append([]domain.Account(nil), s.accounts...)
	codes := append([]domain.VerificationCode(nil), s.codes...)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.accounts = accounts
		s.codes = codes
		s.mu.Unlock()
		return err
	}

	return nil
}

type memAccounts struct {
	store *memStore
	// failUpdatePasswordHash makes UpdatePasswordHash return an error.
	failUpdatePasswordHash bool
}

func (r *memAccounts) Create(_ context.Context, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, a := range r.store.accounts {
		if a.Email == account.Email || a.Username == account.Username {
			return domain.ErrDuplicateEntry
		}
	}

	account.ID = r.store.id()
	r.store.accounts = append(r.store.accounts, *account)
	return nil
}

func (r *memAccounts) Update(_ context.Context, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, a := range r.store.accounts {
		if a.ID != account.ID && (a.Email == account.Email || a.Username == account.Username) {
			return domain.ErrDuplicateEntry
		}
	}

	for i := range r.store.accounts {
		if r.store.accounts[i].ID == account.ID {
			r.store.accounts[i] = *account
			return nil
		}
	}

	return domain.ErrNoRowsAffected
}

func (r *memAccounts) UpdatePasswordHash(_ context.Context, id int64, passwordHash string) error {
	if r.failUpdatePasswordHash {
		return errors.New("connection reset")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.accounts {
		if r.store.accounts[i].ID == id {
			r.store.accounts[i].PasswordHash = passwordHash
			return nil
		}
	}

	return domain.ErrNoRowsAffected
}

func (r *memAccounts) find(match func(a domain.Account) bool) (*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, a := range r.store.accounts {
		if match(a) {
			found := a
			return &found, nil
		}
	}

	return nil, domain.ErrNotFound
}

func (r *memAccounts) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	return r.find(func(a domain.Account) bool { return a.ID == id })
}

func (r *memAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.find(func(a domain.Account) bool { return a.Email == email })
}

func (r *memAccounts) GetVerifiedByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.find(func(a domain.Account) bool { return a.Email == email && a.Verified })
}

func (r *memAccounts) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	return r.find(func(a domain.Account) bool { return a.Username == username })
}

type memCodes struct {
	store *memStore
}

func (r *memCodes) Create(_ context.Context, code *domain.VerificationCode) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	code.ID = r.store.id()
	r.store.codes = append(r.store.codes, *code)
	return nil
}

func (r *memCodes) CountExpiringAfter(_ context.Context, email string, t time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var n int
	for _, c := range r.store.codes {
		if c.Email == email && c.ExpiresAt.After(t) {
			n++
		}
	}
	return n, nil
}

func (r *memCodes) GetNewestUsable(_ context.Context, email string, code string, now time.Time) (*domain.VerificationCode, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var newest *domain.VerificationCode
	for i := range r.store.codes {
		c := r.store.codes[i]
		if c.Email != email || c.Code != code || !c.Usable(now) {
			continue
		}
		if newest == nil || c.ID > newest.ID {
			newest = &c
		}
	}

	if newest == nil {
		return nil, domain.ErrNotFound
	}
	return newest, nil
}

func (r *memCodes) MarkUsed(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.codes {
		if r.store.codes[i].ID == id && !r.store.codes[i].Used {
			r.store.codes[i].Used = true
			return nil
		}
	}
	return domain.ErrNoRowsAffected
}

func (r *memCodes) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.codes {
		if r.store.codes[i].ID == id {
			r.store.codes = append(r.store.codes[:i], r.store.codes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNoRowsAffected
}

func (s *memStore) codeRows() []domain.VerificationCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.VerificationCode(nil), s.codes...)
}

// sequenceGenerator returns codes in order and repeats the last one.
type sequenceGenerator struct {
	mu    sync.Mutex
	codes []string
	err   error
}

func (g *sequenceGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.err != nil {
		return "", g.err
	}

	code := g.codes[0]
	if len(g.codes) > 1 {
		g.codes = g.codes[1:]
	}
	return code, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingDelivery captures delivered codes.
type recordingDelivery struct {
	mu        sync.Mutex
	delivered []VerificationDelivery
	err       error
}

func (d *recordingDelivery) Deliver(_ context.Context, v VerificationDelivery) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.err != nil {
		return d.err
	}
	d.delivered = append(d.delivered, v)
	return nil
}

func (d *recordingDelivery) last() VerificationDelivery {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delivered[len(d.delivered)-1]
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (e *fakeEnqueuer) EnqueueContext(_ context.Context, t *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, t)
	return &asynq.TaskInfo{ID: "task-1", Queue: "q", Type: t.Type()}, nil
}

func verifiedAlice() *domain.Account {
	return &domain.Account{
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "$2a$04$invalid",
		Verified:     true,
	}
}

func unverifiedBob() *domain.Account {
	return &domain.Account{
		Username: "bob",
		Email:    "b@x.com",
	}
}
