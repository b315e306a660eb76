package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/platform/apierr"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
}

func (r fakeUserRepo) Create(_ context.Context, _ *gorm.DB, users []*domain.User) ([]*domain.User, error) {
	for _, u := range users {
		r.byEmail[u.Email] = u
	}
	return users, nil
}

func (r fakeUserRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byEmail {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (r fakeUserRepo) GetByEmails(_ context.Context, _ *gorm.DB, emails []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, email := range emails {
		if u, ok := r.byEmail[email]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	rows, err := r.GetByEmails(ctx, tx, []string{email})
	return len(rows) > 0, err
}

func (r fakeUserRepo) Update(_ context.Context, _ *gorm.DB, user *domain.User) error {
	r.byEmail[user.Email] = user
	return nil
}

func newTestAuthService(t *testing.T, users fakeUserRepo) AuthService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewAuthService(nil, log, users, nil, "test-secret", time.Hour, 24*time.Hour)
}

func mustAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *apierr.Error", err)
	}
	if apiErr.Status != status || apiErr.Code != code {
		t.Fatalf("got %d/%s, want %d/%s", apiErr.Status, apiErr.Code, status, code)
	}
}

func TestRegisterUserValidation(t *testing.T) {
	existing := &domain.User{ID: uuid.New(), Email: "taken@example.com"}
	as := newTestAuthService(t, fakeUserRepo{byEmail: map[string]*domain.User{existing.Email: existing}})
	ctx := context.Background()

	cases := []struct {
		name   string
		user   domain.User
		status int
		code   string
	}{
		{"bad email", domain.User{Email: "not-an-email", Password: "longenough", FirstName: "A", LastName: "B"}, http.StatusBadRequest, "invalid_email"},
		{"short password", domain.User{Email: "a@example.com", Password: "short", FirstName: "A", LastName: "B"}, http.StatusBadRequest, "weak_password"},
		{"missing name", domain.User{Email: "a@example.com", Password: "longenough", FirstName: "", LastName: "B"}, http.StatusBadRequest, "missing_name"},
		{"duplicate email", domain.User{Email: "Taken@Example.com", Password: "longenough", FirstName: "A", LastName: "B"}, http.StatusConflict, "email_taken"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := tc.user
			err := as.RegisterUser(ctx, &user)
			mustAPIError(t, err, tc.status, tc.code)
		})
	}
}

func TestLoginUserRejectsBadCredentials(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &domain.User{ID: uuid.New(), Email: "ada@example.com", Password: string(hashed)}
	as := newTestAuthService(t, fakeUserRepo{byEmail: map[string]*domain.User{user.Email: user}})
	ctx := context.Background()

	_, _, err = as.LoginUser(ctx, "nobody@example.com", "whatever")
	mustAPIError(t, err, http.StatusUnauthorized, "invalid_credentials")

	_, _, err = as.LoginUser(ctx, "ada@example.com", "wrong password")
	mustAPIError(t, err, http.StatusUnauthorized, "invalid_credentials")
}

func TestRefreshUserRequiresToken(t *testing.T) {
	as := newTestAuthService(t, fakeUserRepo{byEmail: map[string]*domain.User{}})

	_, _, err := as.RefreshUser(context.Background(), "")
	mustAPIError(t, err, http.StatusUnauthorized, "invalid_refresh_token")
}

func TestLogoutUserWithoutIdentity(t *testing.T) {
	as := newTestAuthService(t, fakeUserRepo{byEmail: map[string]*domain.User{}})

	err := as.LogoutUser(context.Background())
	mustAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}
