package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "tasknest/internal/domain/user"
	"tasknest/internal/infrastructure/database/entities"
	"tasknest/internal/utils/apierrors"
)

// PostgresRepository provides persistence for accounts.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account record.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	entity := entities.UserFromDomain(u)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierrors.New(apierrors.LayerRepository, apierrors.TypeConflict,
				"USER_ALREADY_EXISTS", "an account with this email or username already exists", err)
		}
		return apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"USER_CREATE_FAILED", "failed to create user", err)
	}
	u.CreatedAt = entity.CreatedAt
	u.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByEmail fetches an account by its (lowercased) email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(err)
		}
		return nil, apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"USER_QUERY_FAILED", "failed to query user", err)
	}
	return entity.ToDomain(), nil
}

// FindByUsername fetches an account by its username.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(err)
		}
		return nil, apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"USER_QUERY_FAILED", "failed to query user", err)
	}
	return entity.ToDomain(), nil
}

// FindByID fetches an account by id.
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(err)
		}
		return nil, apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"USER_QUERY_FAILED", "failed to query user", err)
	}
	return entity.ToDomain(), nil
}

func notFound(err error) error {
	return apierrors.New(apierrors.LayerRepository, apierrors.TypeNotFound,
		"USER_NOT_FOUND", "user not found", err)
}
