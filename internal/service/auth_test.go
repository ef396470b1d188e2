package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/saas-starter/internal/apperror"
	"github.com/sakif/saas-starter/internal/auth"
	"github.com/sakif/saas-starter/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// Using a fake (not a mock framework) keeps tests dependency-free and easy
// to read — you can see exactly what the fake does.
type fakeUserRepo struct {
	users  map[string]*model.User // keyed by normalized email
	nextID int
	// set to a non-nil error to simulate store failures
	findErr   error
	insertErr error
	appendErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	// Return a copy so callers can't mutate the fake's state
	copied := *u
	copied.Tokens = append([]string(nil), u.Tokens...)
	return &copied, nil
}

func (f *fakeUserRepo) Insert(_ context.Context, user *model.User) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	// The real adapters enforce a unique email index here
	if _, exists := f.users[user.Email]; exists {
		return apperror.DuplicateEmail(user.Email)
	}
	f.nextID++
	user.ID = "user-" + string(rune('0'+f.nextID))
	copied := *user
	copied.Tokens = append([]string(nil), user.Tokens...)
	f.users[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) AppendToken(_ context.Context, userID, token string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	for _, u := range f.users {
		if u.ID == userID {
			u.Tokens = append(u.Tokens, token)
			return nil
		}
	}
	return apperror.NotFound("user", userID)
}

// stored fetches the fake's record straight from the map, for assertions.
func (f *fakeUserRepo) stored(email string) *model.User {
	return f.users[email]
}

// newTestAuthService returns an AuthService wired with fake storage and a
// low-iteration KDF so the suite stays fast.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()
	ps := auth.NewPasswordServiceForTest(1_000)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthService(repo, ps, logger)
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_NewUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	result, err := svc.Register(context.Background(), "Alice", "x@y.com", "pw1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.Token == "" {
		t.Fatal("Register() returned empty token")
	}
	if result.Name != "Alice" || result.Email != "x@y.com" {
		t.Errorf("profile = (%q, %q), want (Alice, x@y.com)", result.Name, result.Email)
	}

	user := repo.stored("x@y.com")
	if user == nil {
		t.Fatal("no user persisted")
	}
	if !user.IsActive {
		t.Error("new user should be active")
	}
	if !user.HasCredentials() {
		t.Error("new user should carry a hash/salt pair")
	}
	if len(user.Tokens) != 1 || user.Tokens[0] != result.Token {
		t.Errorf("Tokens = %v, want exactly the issued token", user.Tokens)
	}
	if user.PasswordHash == "pw1" {
		t.Error("password stored in plain text")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "x@y.com", "pw1"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(ctx, "B", "x@y.com", "pw2")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second Register() error = %v, want ErrConflict", err)
	}
}

func TestRegister_DuplicateLostRace(t *testing.T) {
	// Simulate the check-then-act race: the pre-check sees no user, but the
	// store's unique index rejects the insert because a concurrent request
	// won. The caller must still see DuplicateEmail.
	repo := newFakeUserRepo()
	repo.insertErr = apperror.DuplicateEmail("x@y.com")
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), "A", "x@y.com", "pw1")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() error = %v, want ErrConflict from the index", err)
	}
}

func TestRegister_SaltsNeverReused(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@y.com", "same password"); err != nil {
		t.Fatalf("Register(a) error = %v", err)
	}
	if _, err := svc.Register(ctx, "B", "b@y.com", "same password"); err != nil {
		t.Fatalf("Register(b) error = %v", err)
	}

	a, b := repo.stored("a@y.com"), repo.stored("b@y.com")
	if a.Salt == b.Salt {
		t.Error("two registrations received the same salt")
	}
	// Same password, different salts → unrelated digests
	if a.PasswordHash == b.PasswordHash {
		t.Error("same password produced the same stored hash across users")
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	result, err := svc.Register(context.Background(), "A", "  X@Y.com ", "pw")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.Email != "x@y.com" {
		t.Errorf("returned email = %q, want normalized %q", result.Email, "x@y.com")
	}
	if repo.stored("x@y.com") == nil {
		t.Error("user not stored under normalized email")
	}
}

func TestRegister_Validation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	tests := []struct {
		name            string
		userName, email string
		password        string
	}{
		{"empty email", "A", "", "pw"},
		{"malformed email", "A", "not-an-address", "pw"},
		{"empty password", "A", "x@y.com", ""},
		{"empty name", "", "x@y.com", "pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

// =========================================================================
// AUTHENTICATE TESTS
// =========================================================================

func TestAuthenticate_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Alice", "x@y.com", "pw1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	login, err := svc.Authenticate(ctx, "x@y.com", "pw1")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if login.Token == "" {
		t.Fatal("Authenticate() returned empty token")
	}
	if login.Token == reg.Token {
		t.Error("login token should differ from the registration token")
	}

	// One append at registration + one at login
	user := repo.stored("x@y.com")
	if len(user.Tokens) != 2 {
		t.Errorf("len(Tokens) = %d, want 2", len(user.Tokens))
	}
}

func TestAuthenticate_CaseInsensitiveEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "X@Y.com", "pw"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := svc.Authenticate(ctx, "x@y.com", "pw"); err != nil {
		t.Errorf("Authenticate() with lower-cased email error = %v, want success", err)
	}
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "x@y.com", "pw1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	// A record that predates password auth: no credential material at all.
	repo.users["legacy@y.com"] = &model.User{ID: "user-legacy", Name: "L", Email: "legacy@y.com", IsActive: true}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "x@y.com", "wrongpw"},
		{"unknown email", "nobody@y.com", "anything"},
		{"record without credentials", "legacy@y.com", "anything"},
	}

	var messages []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tc.email, tc.password)
			if !errors.Is(err, apperror.ErrUnauthorized) {
				t.Fatalf("Authenticate() error = %v, want ErrUnauthorized", err)
			}
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("error %v is not an AppError", err)
			}
			messages = append(messages, appErr.Message)
		})
	}

	// All three observable messages must be identical — the error must not
	// say whether the account exists.
	for i := 1; i < len(messages); i++ {
		if messages[i] != messages[0] {
			t.Errorf("failure %d message %q differs from %q", i, messages[i], messages[0])
		}
	}
}

func TestAuthenticate_NoTokenAppendedOnFailure(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "x@y.com", "pw1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := svc.Authenticate(ctx, "x@y.com", "wrongpw"); err == nil {
		t.Fatal("Authenticate() with wrong password should fail")
	}

	if got := len(repo.stored("x@y.com").Tokens); got != 1 {
		t.Errorf("len(Tokens) after failed login = %d, want 1 (registration only)", got)
	}
}

func TestAuthenticate_StoreErrorPropagates(t *testing.T) {
	repo := newFakeUserRepo()
	repo.findErr = apperror.StoreUnavailable(errors.New("connection refused"))
	svc := newTestAuthService(t, repo)

	_, err := svc.Authenticate(context.Background(), "x@y.com", "pw")
	// Store failures must NOT be masked as credential failures
	if errors.Is(err, apperror.ErrUnauthorized) {
		t.Error("store failure was reported as invalid credentials")
	}
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("Authenticate() error = %v, want ErrUnavailable on the chain", err)
	}
}

func TestRegister_StoreErrorPropagates(t *testing.T) {
	repo := newFakeUserRepo()
	repo.findErr = apperror.StoreUnavailable(errors.New("connection refused"))
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), "A", "x@y.com", "pw")
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("Register() error = %v, want ErrUnavailable on the chain", err)
	}
}
