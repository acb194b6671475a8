package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasknest/internal/domain/user"
	"tasknest/internal/utils/apierrors"
)

type mockRepo struct {
	createFunc         func(ctx context.Context, u *user.User) error
	findByEmailFunc    func(ctx context.Context, email string) (*user.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (*user.User, error)
	findByIDFunc       func(ctx context.Context, id uuid.UUID) (*user.User, error)
}

func (m *mockRepo) Create(ctx context.Context, u *user.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.findByEmailFunc(ctx, email)
}

func (m *mockRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	if m.findByUsernameFunc == nil {
		return nil, notFoundErr()
	}
	return m.findByUsernameFunc(ctx, username)
}

func (m *mockRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return m.findByIDFunc(ctx, id)
}

type mockHasher struct {
	dummyCalls int
}

func (m *mockHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) bool {
	return hash == "hashed:"+password
}

func (m *mockHasher) DummyCompare(string) {
	m.dummyCalls++
}

func notFoundErr() error {
	return apierrors.New(apierrors.LayerRepository, apierrors.TypeNotFound,
		"USER_NOT_FOUND", "user not found", nil)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	var created *user.User
	repo := &mockRepo{
		findByEmailFunc: func(_ context.Context, _ string) (*user.User, error) {
			return nil, notFoundErr()
		},
		createFunc: func(_ context.Context, u *user.User) error {
			created = u
			return nil
		},
	}
	svc := user.NewService(repo, &mockHasher{})

	u, err := svc.Register(context.Background(), "  Alice@Example.COM ", "alice", "s3cretpass")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "hashed:s3cretpass", u.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	repo := &mockRepo{
		findByEmailFunc: func(_ context.Context, _ string) (*user.User, error) {
			return nil, notFoundErr()
		},
	}
	svc := user.NewService(repo, &mockHasher{})

	cases := []struct {
		name     string
		email    string
		username string
		password string
	}{
		{"bad email", "not-an-email", "alice", "s3cretpass"},
		{"short password", "alice@example.com", "alice", "short"},
		{"username too short", "alice@example.com", "al", "s3cretpass"},
		{"username too long", "alice@example.com", strings.Repeat("a", 51), "s3cretpass"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.email, tc.username, tc.password)
			require.Error(t, err)
			assert.True(t, apierrors.IsType(err, apierrors.TypeValidation))
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &mockRepo{
		findByEmailFunc: func(_ context.Context, _ string) (*user.User, error) {
			return &user.User{ID: uuid.New(), Email: "alice@example.com"}, nil
		},
	}
	svc := user.NewService(repo, &mockHasher{})

	_, err := svc.Register(context.Background(), "alice@example.com", "alice", "s3cretpass")
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.TypeConflict))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := &mockRepo{
		findByEmailFunc: func(_ context.Context, _ string) (*user.User, error) {
			return nil, notFoundErr()
		},
		findByUsernameFunc: func(_ context.Context, username string) (*user.User, error) {
			return &user.User{ID: uuid.New(), Username: username}, nil
		},
	}
	svc := user.NewService(repo, &mockHasher{})

	_, err := svc.Register(context.Background(), "bob@example.com", "alice", "s3cretpass")
	require.Error(t, err)
	var apiErr *apierrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "USERNAME_ALREADY_EXISTS", apiErr.Code)
}

func TestAuthenticate(t *testing.T) {
	stored := &user.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: "hashed:s3cretpass",
	}
	repo := &mockRepo{
		findByEmailFunc: func(_ context.Context, email string) (*user.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, notFoundErr()
		},
	}
	hasher := &mockHasher{}
	svc := user.NewService(repo, hasher)

	u, err := svc.Authenticate(context.Background(), "Alice@Example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, u.ID)

	_, err = svc.Authenticate(context.Background(), "alice@example.com", "wrongpass")
	require.Error(t, err)
	var apiErr *apierrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, err)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "USER_NOT_REGISTERED", apiErr.Code)
	assert.Equal(t, 1, hasher.dummyCalls, "unknown email must still burn a comparison")
}
