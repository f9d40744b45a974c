package auth

// Package auth contains simple hand-written test doubles for auth ports and repositories.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"crypto/subtle"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/target/blogger-api/internal/core"
	domainauth "github.com/target/blogger-api/internal/domain/auth"
	"github.com/target/blogger-api/internal/domain/model"
	apperrors "github.com/target/blogger-api/internal/errors"
	"github.com/target/blogger-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ core.UserRepository            = (*MemoryUserRepository)(nil)
	_ core.PasswordHistoryRepository = (*MemoryPasswordHistory)(nil)
	_ core.WellnessRepository        = (*MemoryWellnessRepository)(nil)
	_ ports.PasswordHasher           = (*PlainHasher)(nil)
	_ ports.Mailer                   = (*RecordingMailer)(nil)
	_ ports.TokenDenylist            = (*MemoryDenylist)(nil)
)

// MemoryUserRepository is an in-memory user store enforcing unique emails.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*domainauth.User
	now   func() time.Time
}

// NewMemoryUserRepository creates an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*domainauth.User), now: time.Now}
}

func clone(u *domainauth.User) *domainauth.User {
	c := *u
	return &c
}

func (m *MemoryUserRepository) Create(_ context.Context, nu domainauth.NewUser) (*domainauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := strings.ToLower(nu.Email)
	for _, u := range m.users {
		if u.Email == email {
			return nil, &apperrors.AppError{
				Code:    apperrors.ErrCodeConflict,
				Message: "A user with this email already exists",
				Field:   "email",
			}
		}
	}
	role := nu.Role
	if role == "" {
		role = domainauth.DefaultRole
	}
	now := m.now()
	u := &domainauth.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         nu.Name,
		PasswordHash: nu.PasswordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u
	return clone(u), nil
}

func (m *MemoryUserRepository) GetByID(_ context.Context, id string) (*domainauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return clone(u), nil
}

func (m *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domainauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range m.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (m *MemoryUserRepository) UpdatePasswordHash(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperrors.NotFound("user not found")
	}
	u.PasswordHash = hash
	u.UpdatedAt = m.now()
	return nil
}

func (m *MemoryUserRepository) UpdateRole(_ context.Context, id string, role domainauth.Role) (*domainauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	u.Role = role
	u.UpdatedAt = m.now()
	return clone(u), nil
}

func (m *MemoryUserRepository) List(_ context.Context, limit, offset int) ([]*domainauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*domainauth.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, clone(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	if offset >= len(all) {
		return []*domainauth.User{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (m *MemoryUserRepository) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

// Delete removes a user; used to simulate a reset token outliving its account.
func (m *MemoryUserRepository) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

// SetRole changes a stored user's role directly.
func (m *MemoryUserRepository) SetRole(id string, role domainauth.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.Role = role
	}
}

// MemoryPasswordHistory keeps history entries per user, newest last internally.
type MemoryPasswordHistory struct {
	mu      sync.Mutex
	entries map[string][]domainauth.PasswordHistoryEntry
	clock   time.Time
}

// NewMemoryPasswordHistory creates an empty history store.
func NewMemoryPasswordHistory() *MemoryPasswordHistory {
	return &MemoryPasswordHistory{
		entries: make(map[string][]domainauth.PasswordHistoryEntry),
		clock:   time.Unix(1_700_000_000, 0),
	}
}

func (m *MemoryPasswordHistory) ListRecent(_ context.Context, userID string, limit int) ([]domainauth.PasswordHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src := m.entries[userID]
	out := make([]domainauth.PasswordHistoryEntry, 0, min(limit, len(src)))
	for i := len(src) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, src[i])
	}
	return out, nil
}

func (m *MemoryPasswordHistory) Append(_ context.Context, p core.AppendPasswordHistoryParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Strictly increasing timestamps keep ordering deterministic.
	m.clock = m.clock.Add(time.Second)
	list := append(m.entries[p.UserID], domainauth.PasswordHistoryEntry{
		ID:           uuid.NewString(),
		UserID:       p.UserID,
		PasswordHash: p.Hash,
		CreatedAt:    m.clock,
	})
	if p.Keep > 0 && len(list) > p.Keep {
		list = slices.Clone(list[len(list)-p.Keep:])
	}
	m.entries[p.UserID] = list
	return nil
}

// Len returns the number of entries stored for userID.
func (m *MemoryPasswordHistory) Len(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries[userID])
}

// MemoryWellnessRepository stores check-ins in memory.
type MemoryWellnessRepository struct {
	mu       sync.Mutex
	checkins []*model.WellnessCheckin
	clock    time.Time
}

// NewMemoryWellnessRepository creates an empty repository.
func NewMemoryWellnessRepository() *MemoryWellnessRepository {
	return &MemoryWellnessRepository{clock: time.Unix(1_700_000_000, 0)}
}

func (m *MemoryWellnessRepository) Create(_ context.Context, req *model.CreateWellnessRequest) (*model.WellnessCheckin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	stress := model.DefaultStressLevel
	if req.Stress != nil {
		stress = *req.Stress
	}
	c := &model.WellnessCheckin{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Mood:      req.Mood,
		Stress:    stress,
		Notes:     req.Notes,
		CreatedAt: m.clock,
	}
	m.checkins = append(m.checkins, c)
	cp := *c
	return &cp, nil
}

func (m *MemoryWellnessRepository) ListByUser(_ context.Context, opts model.WellnessListOptions) ([]*model.WellnessCheckin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var own []*model.WellnessCheckin
	for i := len(m.checkins) - 1; i >= 0; i-- {
		if m.checkins[i].UserID == opts.UserID {
			cp := *m.checkins[i]
			own = append(own, &cp)
		}
	}
	if opts.Offset >= len(own) {
		return []*model.WellnessCheckin{}, nil
	}
	end := min(opts.Offset+opts.Limit, len(own))
	return own[opts.Offset:end], nil
}

func (m *MemoryWellnessRepository) CountByUser(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.checkins {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *MemoryWellnessRepository) Stats(_ context.Context) (core.WellnessStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st core.WellnessStats
	users := map[string]struct{}{}
	sum := 0
	for _, c := range m.checkins {
		st.TotalCheckins++
		sum += c.Stress
		users[c.UserID] = struct{}{}
	}
	if st.TotalCheckins > 0 {
		st.AvgStress = float64(sum) / float64(st.TotalCheckins)
	}
	st.UsersWithCheckins = len(users)
	return st, nil
}

func (m *MemoryWellnessRepository) MoodDistribution(_ context.Context) ([]model.MoodCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[model.Mood]int{}
	for _, c := range m.checkins {
		counts[c.Mood]++
	}
	out := make([]model.MoodCount, 0, len(counts))
	for _, mood := range model.Moods() {
		if n, ok := counts[mood]; ok {
			out = append(out, model.MoodCount{Mood: mood, Count: n})
		}
	}
	return out, nil
}

// PlainHasher is a fast, salted, insecure hasher for tests.
type PlainHasher struct{}

func (PlainHasher) Hash(_ context.Context, password string) (string, error) {
	if password == "" {
		return "", apperrors.Validation("Password is required")
	}
	if len(password) > domainauth.MaxPasswordLength {
		return "", apperrors.Validation("Password must not exceed 72 characters")
	}
	return "plain$" + uuid.NewString() + "$" + password, nil
}

func (PlainHasher) Verify(_ context.Context, password, hash string) bool {
	parts := strings.SplitN(hash, "$", 3)
	if len(parts) != 3 || parts[0] != "plain" || password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(parts[2]), []byte(password)) == 1
}

// RecordingMailer records messages and optionally fails.
type RecordingMailer struct {
	mu      sync.Mutex
	Resets  []ports.PasswordResetEmail
	Welcome []ports.WelcomeEmail
	Err     error
}

func (m *RecordingMailer) SendPasswordReset(_ context.Context, msg ports.PasswordResetEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Resets = append(m.Resets, msg)
	return nil
}

func (m *RecordingMailer) SendWelcome(_ context.Context, msg ports.WelcomeEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Welcome = append(m.Welcome, msg)
	return nil
}

// LastReset returns the most recent reset message, if any.
func (m *RecordingMailer) LastReset() (ports.PasswordResetEmail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Resets) == 0 {
		return ports.PasswordResetEmail{}, false
	}
	return m.Resets[len(m.Resets)-1], true
}

// ErrDenylistUnavailable simulates a denylist backend outage.
var ErrDenylistUnavailable = errors.New("denylist unavailable")

// MemoryDenylist is an in-memory token denylist. TTLs are recorded but not enforced.
type MemoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	Fail    bool
}

// NewMemoryDenylist creates an empty denylist.
func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: make(map[string]time.Duration)}
}

func (m *MemoryDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return ErrDenylistUnavailable
	}
	m.revoked[tokenID] = ttl
	return nil
}

func (m *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return false, ErrDenylistUnavailable
	}
	_, ok := m.revoked[tokenID]
	return ok, nil
}

// Count returns the number of revoked identifiers.
func (m *MemoryDenylist) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.revoked)
}
