package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

// UserFilter describes pagination & search options for user listings.
type UserFilter struct {
	Search   string
	Role     *models.Role
	Active   *bool
	Page     int
	PageSize int
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository instantiates a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := dbFromContext(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := dbFromContext(ctx, r.db).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := dbFromContext(ctx, r.db).Model(&models.User{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern, pattern)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return dbFromContext(ctx, r.db).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return dbFromContext(ctx, r.db).Save(user).Error
}
