// Package appctx is the single process-wide session context: the bearer
// token, the active user mode, the local account and the cached profile.
// It is initialized once at startup and invalidated explicitly on logout;
// handlers read it instead of hitting storage ad hoc.
package appctx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"lg/sweat-go-api/internal/profile"
	"lg/sweat-go-api/internal/store"
)

// Mode is the local login mode. Admin mode disables live step tracking.
type Mode string

const (
	ModeNone  Mode = ""
	ModeUser  Mode = "user"
	ModeAdmin Mode = "admin"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoAccount          = errors.New("no account found, create an account first")
)

// dummyHash is checked when no account exists so the response time doesn't
// reveal whether a username is registered.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// Credentials is the local account record. Only the bcrypt hash is stored.
type Credentials struct {
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	PasswordHash string `json:"passwordHash"`
}

// DisplayName is shown in the dashboard greeting: the full name, else the
// username.
func (c *Credentials) DisplayName() string {
	if name := strings.TrimSpace(c.FullName); name != "" {
		return name
	}
	return c.Username
}

// AdminAccount is an optional operator login configured outside the store.
type AdminAccount struct {
	Username     string
	PasswordHash string
}

// Context holds session state shared by every request.
type Context struct {
	store    store.Store
	profiles *profile.Repository
	admin    *AdminAccount

	mu          sync.RWMutex
	token       string
	mode        Mode
	credentials *Credentials
	profile     *profile.Profile
}

func New(s store.Store, admin *AdminAccount) *Context {
	return &Context{store: s, profiles: profile.NewRepository(s), admin: admin}
}

// Init loads persisted session state. Call once at startup.
func (a *Context) Init(ctx context.Context) error {
	var token string
	if _, err := store.GetJSON(ctx, a.store, store.KeySessionToken, &token); err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	var mode Mode
	if _, err := store.GetJSON(ctx, a.store, store.KeyUserMode, &mode); err != nil {
		return fmt.Errorf("load mode: %w", err)
	}
	var creds Credentials
	found, err := store.GetJSON(ctx, a.store, store.KeyCredentials, &creds)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	p, err := a.profiles.Load(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
	a.mode = mode
	a.credentials = nil
	if found {
		a.credentials = &creds
	}
	a.profile = p
	return nil
}

/* ─── Token ──────────────────────────────────────────────────────────── */

func (a *Context) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// SetToken persists the backend token and switches to user mode.
func (a *Context) SetToken(ctx context.Context, token string) error {
	if err := store.SetJSON(ctx, a.store, store.KeySessionToken, token); err != nil {
		return err
	}
	if err := store.SetJSON(ctx, a.store, store.KeyUserMode, ModeUser); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
	a.mode = ModeUser
	return nil
}

// Logout clears the token and mode. The profile and local account stay.
func (a *Context) Logout(ctx context.Context) error {
	if err := store.Delete(ctx, a.store, store.KeySessionToken); err != nil {
		return err
	}
	if err := store.Delete(ctx, a.store, store.KeyUserMode); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = ""
	a.mode = ModeNone
	return nil
}

func (a *Context) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

/* ─── Local account ──────────────────────────────────────────────────── */

// CreateAccount hashes password and stores the local account record.
func (a *Context) CreateAccount(ctx context.Context, username, fullName, password string) (*Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	creds := &Credentials{Username: username, FullName: strings.TrimSpace(fullName), PasswordHash: string(hash)}
	if err := store.SetJSON(ctx, a.store, store.KeyCredentials, creds); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.credentials = creds
	return creds, nil
}

// Account returns the local account, or nil if none was created.
func (a *Context) Account() *Credentials {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.credentials == nil {
		return nil
	}
	c := *a.credentials
	return &c
}

// VerifyLocal checks username/password against the admin account (if
// configured) and then the stored local account. It has no side effects.
func (a *Context) VerifyLocal(username, password string) (Mode, error) {
	if a.admin != nil && a.admin.Username != "" && username == a.admin.Username {
		if bcrypt.CompareHashAndPassword([]byte(a.admin.PasswordHash), []byte(password)) != nil {
			return ModeNone, ErrInvalidCredentials
		}
		return ModeAdmin, nil
	}

	creds := a.Account()
	// Always run bcrypt so timing doesn't reveal whether an account exists.
	hashToCheck := string(dummyHash)
	if creds != nil {
		hashToCheck = creds.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(password))

	if creds == nil {
		return ModeNone, ErrNoAccount
	}
	if username != creds.Username || compareErr != nil {
		return ModeNone, ErrInvalidCredentials
	}
	return ModeUser, nil
}

// LocalLogin verifies the credentials and persists the resulting mode.
func (a *Context) LocalLogin(ctx context.Context, username, password string) (Mode, error) {
	mode, err := a.VerifyLocal(username, password)
	if err != nil {
		return ModeNone, err
	}
	return mode, a.setMode(ctx, mode)
}

func (a *Context) setMode(ctx context.Context, m Mode) error {
	if err := store.SetJSON(ctx, a.store, store.KeyUserMode, m); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = m
	return nil
}

/* ─── Profile ────────────────────────────────────────────────────────── */

// Profile returns a copy of the cached profile, or nil before onboarding.
func (a *Context) Profile() *profile.Profile {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.profile == nil {
		return nil
	}
	p := *a.profile
	return &p
}

// SaveProfile validates, persists and caches p.
func (a *Context) SaveProfile(ctx context.Context, p *profile.Profile) error {
	if err := a.profiles.Save(ctx, p); err != nil {
		return err
	}
	cached := *p
	a.mu.Lock()
	defer a.mu.Unlock()
	a.profile = &cached
	return nil
}
