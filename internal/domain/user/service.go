package user

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"tasknest/internal/utils/apierrors"
)

// Credential bounds enforced at registration time.
const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Service implements the account use cases.
type Service struct {
	repo   Repository
	hasher PasswordHasher
}

// NewService creates a user service.
func NewService(repo Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Register creates a new account. The email is lowercased before storage so
// lookups are case-insensitive. Both the email and the username must be free.
func (s *Service) Register(ctx context.Context, email, username, password string) (*User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, apierrors.New(apierrors.LayerDomain, apierrors.TypeValidation,
			"INVALID_PASSWORD", "password must be at least 8 characters", nil)
	}

	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, apierrors.New(apierrors.LayerDomain, apierrors.TypeConflict,
			"USER_ALREADY_EXISTS", "an account with this email already exists", nil)
	} else if err != nil && !apierrors.IsType(err, apierrors.TypeNotFound) {
		return nil, err
	}
	if existing, err := s.repo.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, apierrors.New(apierrors.LayerDomain, apierrors.TypeConflict,
			"USERNAME_ALREADY_EXISTS", "this username is already taken", nil)
	} else if err != nil && !apierrors.IsType(err, apierrors.TypeNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apierrors.New(apierrors.LayerDomain, apierrors.TypeInternal,
			"PASSWORD_HASH_FAILED", "failed to hash password", err)
	}

	u := &User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if apierrors.IsType(err, apierrors.TypeConflict) {
			return nil, apierrors.New(apierrors.LayerDomain, apierrors.TypeConflict,
				"USER_ALREADY_EXISTS", "an account with this email or username already exists", err)
		}
		return nil, err
	}
	return u, nil
}

// Authenticate verifies credentials and returns the matching account.
// Unknown emails and wrong passwords both cost a bcrypt comparison.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if apierrors.IsType(err, apierrors.TypeNotFound) {
			s.hasher.DummyCompare(password)
			return nil, apierrors.New(apierrors.LayerDomain, apierrors.TypeUnauthorized,
				"USER_NOT_REGISTERED", "no account exists for this email", nil)
		}
		return nil, err
	}

	if !s.hasher.Compare(u.PasswordHash, password) {
		return nil, apierrors.New(apierrors.LayerDomain, apierrors.TypeUnauthorized,
			"INVALID_CREDENTIALS", "invalid email or password", nil)
	}
	return u, nil
}

// Get fetches an account by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return apierrors.New(apierrors.LayerDomain, apierrors.TypeValidation,
			"INVALID_EMAIL", "email must not be empty", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apierrors.New(apierrors.LayerDomain, apierrors.TypeValidation,
			"INVALID_EMAIL", "email is not a valid address", nil)
	}
	return nil
}

func validateUsername(username string) error {
	if n := len([]rune(username)); n < MinUsernameLength || n > MaxUsernameLength {
		return apierrors.New(apierrors.LayerDomain, apierrors.TypeValidation,
			"INVALID_USERNAME", "username must be between 3 and 50 characters", nil)
	}
	return nil
}
