package repositories

import (
	"context"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/pkg/pagination"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDAndRole gets a user by ID restricted to one role
func (r *userRepository) GetByIDAndRole(ctx context.Context, id, role string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ? AND role = ?", id, role).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDOrEmail gets a user whose ID or email matches the identifier
func (r *userRepository) GetByIDOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ? OR email = ?", identifier, identifier).
		Order("id").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves all user fields
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete hard deletes a user and returns the number of rows removed
func (r *userRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	return result.RowsAffected, result.Error
}

// ListByRole lists users of one role with pagination
func (r *userRepository) ListByRole(ctx context.Context, role string, page pagination.Window) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role)

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get users with pagination
	if err := query.Order("created_at DESC, id").Scopes(page.Scope).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ExistsByID checks if a user ID exists
func (r *userRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByEmailExcept checks if email belongs to a user other than exceptID
func (r *userRepository) ExistsByEmailExcept(ctx context.Context, email, exceptID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	return count > 0, err
}
