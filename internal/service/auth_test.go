package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nafisa/campgrounds/internal/apperror"
	"github.com/nafisa/campgrounds/internal/auth"
	"github.com/nafisa/campgrounds/internal/model"
	"github.com/nafisa/campgrounds/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository. A hand-written fake (not a
// mock framework) keeps the tests dependency-free and easy to read.
type fakeUserRepo struct {
	users   map[string]*model.User // keyed by internal ID
	nextID  int
	creates int // counts Create calls, to assert the store stayed untouched
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeUserRepo) GetByFacebookID(ctx context.Context, facebookID string) (*model.User, error) {
	for _, u := range f.users {
		if u.FacebookID == facebookID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", facebookID)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.creates++
	// Mirror the unique username index
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperror.UsernameTaken(user.Username)
		}
	}
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// fakeFacebook returns a canned profile, or an error.
type fakeFacebook struct {
	profile *auth.FacebookProfile
	err     error
	calls   int
}

func (f *fakeFacebook) VerifyToken(ctx context.Context, accessToken string) (*auth.FacebookProfile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthService(t *testing.T, repo *fakeUserRepo, fb *fakeFacebook) *AuthService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)
	if fb == nil {
		fb = &fakeFacebook{}
	}
	return NewAuthService(repo, tokens, passwords, fb, testLogger())
}

func TestRegister_ThenAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo, nil)
	ctx := context.Background()

	created, err := svc.Register(ctx, "jane", "s3cret", "Jane", "Camper")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("Register() returned a user without an ID")
	}
	if created.PasswordHash == "s3cret" {
		t.Fatal("Register() stored the plaintext password")
	}
	if created.FirstName != "Jane" || created.LastName != "Camper" {
		t.Errorf("profile fields = %q/%q, want Jane/Camper", created.FirstName, created.LastName)
	}

	got, err := svc.Authenticate(ctx, "jane", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate() after Register() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("Authenticate() user id = %q, want %q", got.ID, created.ID)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jane", "s3cret", "", ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Authenticate(ctx, "jane", "wrong")
	if !errors.Is(err, apperror.ErrBadCredentials) {
		t.Errorf("Authenticate() error = %v, want ErrBadCredentials", err)
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo, nil)

	_, err := svc.Authenticate(context.Background(), "nobody", "whatever")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Authenticate() error = %v, want ErrNotFound", err)
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jane", "first", "", ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	createsBefore := repo.creates

	_, err := svc.Register(ctx, "jane", "second", "", "")
	if !errors.Is(err, apperror.ErrUsernameTaken) {
		t.Fatalf("Register() error = %v, want ErrUsernameTaken", err)
	}

	// The conflicting registration must not have written anything.
	if repo.creates != createsBefore {
		t.Error("Register() attempted a write despite the username conflict")
	}
	if len(repo.users) != 1 {
		t.Errorf("store has %d users, want 1", len(repo.users))
	}
}

func TestLogin_IssuesValidToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo, nil)
	ctx := context.Background()

	created, err := svc.Register(ctx, "jane", "s3cret", "", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(ctx, "jane", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Fatal("Login() returned an empty token")
	}

	// The token must round-trip back to the same user id.
	userID, err := svc.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if userID != created.ID {
		t.Errorf("token subject = %q, want %q", userID, created.ID)
	}
}

func TestLoginOrRegisterFacebook_FirstLoginCreatesUser(t *testing.T) {
	repo := newFakeUserRepo()
	fb := &fakeFacebook{profile: &auth.FacebookProfile{
		ID:        "fb-123",
		Name:      "Jane Camper",
		FirstName: "Jane",
		LastName:  "Camper",
	}}
	svc := newTestAuthService(t, repo, fb)
	ctx := context.Background()

	result, err := svc.LoginOrRegisterFacebook(ctx, "some-access-token")
	if err != nil {
		t.Fatalf("LoginOrRegisterFacebook() error = %v", err)
	}

	if len(repo.users) != 1 {
		t.Fatalf("store has %d users, want exactly 1", len(repo.users))
	}
	user := result.User
	if user.Username != "Jane Camper" {
		t.Errorf("username = %q, want the provider display name", user.Username)
	}
	if user.FacebookID != "fb-123" {
		t.Errorf("facebook id = %q, want fb-123", user.FacebookID)
	}
	if user.FirstName != "Jane" || user.LastName != "Camper" {
		t.Errorf("profile fields = %q/%q, want Jane/Camper", user.FirstName, user.LastName)
	}
	if user.PasswordHash != "" {
		t.Error("facebook-only account should have no password hash")
	}
}

func TestLoginOrRegisterFacebook_SecondLoginReusesUser(t *testing.T) {
	repo := newFakeUserRepo()
	fb := &fakeFacebook{profile: &auth.FacebookProfile{ID: "fb-123", Name: "Jane Camper"}}
	svc := newTestAuthService(t, repo, fb)
	ctx := context.Background()

	first, err := svc.LoginOrRegisterFacebook(ctx, "token-1")
	if err != nil {
		t.Fatalf("first login error = %v", err)
	}

	second, err := svc.LoginOrRegisterFacebook(ctx, "token-2")
	if err != nil {
		t.Fatalf("second login error = %v", err)
	}

	if second.User.ID != first.User.ID {
		t.Errorf("second login user id = %q, want %q", second.User.ID, first.User.ID)
	}
	if len(repo.users) != 1 {
		t.Errorf("store has %d users after two logins, want 1 (no duplicate)", len(repo.users))
	}
}

func TestLoginOrRegisterFacebook_ProviderFailure(t *testing.T) {
	repo := newFakeUserRepo()
	fb := &fakeFacebook{err: fmt.Errorf("auth: %w: token rejected", apperror.ErrProvider)}
	svc := newTestAuthService(t, repo, fb)

	_, err := svc.LoginOrRegisterFacebook(context.Background(), "bad-token")
	if !errors.Is(err, apperror.ErrProvider) {
		t.Errorf("error = %v, want ErrProvider", err)
	}
	if len(repo.users) != 0 {
		t.Error("a failed provider exchange must not create a user")
	}
}
