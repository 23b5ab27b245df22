package service_test

import (
	"context"
	"testing"

	"counterpos/internal/config"
	"counterpos/internal/dto"
	"counterpos/internal/model"
	"counterpos/internal/repository"
	"counterpos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return errNotFound
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active || includeInactive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return errNotFound
	}
	u.Active = active
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newAuthFixture() (service.AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(repo, cfg), repo
}

func seedUser(repo *stubUserRepo, username, password, role string, active bool) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         username,
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	_ = repo.Create(context.Background(), u)
	return u
}

func TestLoginSuccess(t *testing.T) {
	svc, repo := newAuthFixture()
	seedUser(repo, "cashier1", "hunter2", "cashier", true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "hunter2"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "cashier", resp.User.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo := newAuthFixture()
	seedUser(repo, "cashier1", "hunter2", "cashier", true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "wrong"})

	assert.EqualError(t, err, "invalid credentials")
}

func TestLoginInactiveUser(t *testing.T) {
	svc, repo := newAuthFixture()
	seedUser(repo, "gone", "hunter2", "manager", false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "gone", Password: "hunter2"})

	assert.EqualError(t, err, "invalid credentials")
}

func TestRefreshRoundTrip(t *testing.T) {
	svc, repo := newAuthFixture()
	seedUser(repo, "admin1", "hunter2", "admin", true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin1", Password: "hunter2"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Refresh(context.Background(), "not-a-token")

	assert.Error(t, err)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc, repo := newAuthFixture()
	seedUser(repo, "taken", "hunter2", "cashier", true)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "taken",
		Name:     "Someone",
		Password: "hunter2",
		Role:     "cashier",
	})

	assert.EqualError(t, err, "username already taken")
}
