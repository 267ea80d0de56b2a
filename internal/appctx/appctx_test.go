package appctx

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"lg/sweat-go-api/internal/profile"
	"lg/sweat-go-api/internal/store"
)

func TestInit_EmptyStore(t *testing.T) {
	a := New(store.NewMemoryStore(), nil)
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if a.Token() != "" || a.Mode() != ModeNone || a.Account() != nil || a.Profile() != nil {
		t.Error("expected empty context on a fresh store")
	}
}

func TestTokenLifecycle_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	a := New(s, nil)
	if err := a.SetToken(ctx, "tok-1"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	// A second context over the same store simulates a process restart.
	b := New(s, nil)
	b.Init(ctx)
	if b.Token() != "tok-1" || b.Mode() != ModeUser {
		t.Errorf("after restart token=%q mode=%q", b.Token(), b.Mode())
	}

	if err := b.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if b.Token() != "" || b.Mode() != ModeNone {
		t.Error("Logout left token or mode set")
	}
	c := New(s, nil)
	c.Init(ctx)
	if c.Token() != "" {
		t.Error("token persisted after logout")
	}
}

func TestLogout_KeepsProfile(t *testing.T) {
	ctx := context.Background()
	a := New(store.NewMemoryStore(), nil)
	p := &profile.Profile{WeightLbs: 150, HeightFeet: 5, HeightExtraInches: 6, ActivityLevel: "1-3", Goal: "be_healthier"}
	if err := a.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	a.SetToken(ctx, "tok")
	a.Logout(ctx)
	if a.Profile() == nil {
		t.Error("Logout cleared the profile")
	}
}

func TestCreateAccount_StoresHashOnly(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	a := New(s, nil)
	if _, err := a.CreateAccount(ctx, "jane", "Jane Doe", "hunter22"); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	raw, _ := s.Get(ctx, store.KeyCredentials)
	if strings.Contains(string(raw), "hunter22") {
		t.Errorf("plaintext password persisted: %s", raw)
	}
	if a.Account().DisplayName() != "Jane Doe" {
		t.Errorf("DisplayName = %q, want Jane Doe", a.Account().DisplayName())
	}
}

func TestCredentials_DisplayName(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  string
	}{
		{"full name", Credentials{Username: "jane", FullName: "Jane Doe"}, "Jane Doe"},
		{"blank full name", Credentials{Username: "jane", FullName: "  "}, "jane"},
		{"no full name", Credentials{Username: "jane"}, "jane"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalLogin(t *testing.T) {
	ctx := context.Background()
	a := New(store.NewMemoryStore(), nil)

	if _, err := a.LocalLogin(ctx, "jane", "x"); !errors.Is(err, ErrNoAccount) {
		t.Errorf("before account: expected ErrNoAccount, got %v", err)
	}

	a.CreateAccount(ctx, "jane", "", "hunter22")
	if _, err := a.LocalLogin(ctx, "jane", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.LocalLogin(ctx, "john", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong username: expected ErrInvalidCredentials, got %v", err)
	}
	mode, err := a.LocalLogin(ctx, "jane", "hunter22")
	if err != nil || mode != ModeUser || a.Mode() != ModeUser {
		t.Errorf("LocalLogin = %q, %v; Mode() = %q", mode, err, a.Mode())
	}
}

func TestLocalLogin_Admin(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("opensesame"), bcrypt.MinCost)
	a := New(store.NewMemoryStore(), &AdminAccount{Username: "admin", PasswordHash: string(hash)})

	if _, err := a.LocalLogin(ctx, "admin", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad admin password: expected ErrInvalidCredentials, got %v", err)
	}
	mode, err := a.LocalLogin(ctx, "admin", "opensesame")
	if err != nil || mode != ModeAdmin {
		t.Errorf("admin login = %q, %v", mode, err)
	}
}

func TestProfile_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	a := New(store.NewMemoryStore(), nil)
	a.SaveProfile(ctx, &profile.Profile{WeightLbs: 150, HeightFeet: 5, ActivityLevel: "3-5", Goal: "weight_loss"})

	p := a.Profile()
	p.WeightLbs = 999
	if a.Profile().WeightLbs != 150 {
		t.Error("mutating Profile() result changed the cached profile")
	}
}

func TestVerifyLocal_DoesNotChangeMode(t *testing.T) {
	ctx := context.Background()
	a := New(store.NewMemoryStore(), nil)
	a.CreateAccount(ctx, "jane", "", "hunter22")

	mode, err := a.VerifyLocal("jane", "hunter22")
	if err != nil || mode != ModeUser {
		t.Fatalf("VerifyLocal = %q, %v", mode, err)
	}
	if a.Mode() != ModeNone {
		t.Errorf("VerifyLocal changed mode to %q", a.Mode())
	}
}
