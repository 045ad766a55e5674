package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/task-manager/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByEmail finds a user by normalised email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByIDAndToken finds a user by ID whose token list contains token
func (r *GormUserRepository) FindByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	var user models.User
	tokenExists := r.db.Model(&models.UserToken{}).
		Select("1").
		Where("user_tokens.user_id = users.id").
		Where("user_tokens.token = ?", token)

	err := r.db.WithContext(ctx).
		Where("users.id = ?", id).
		Where("EXISTS (?)", tokenExists).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// profileColumns are the columns Update writes. The avatar is owned by
// SetAvatar and must not be overwritten with a stale copy.
var profileColumns = []string{"Name", "Email", "PasswordHash", "Age", "UpdatedAt"}

// Update writes the user's profile columns. Hooks run; associations and the
// avatar are left untouched.
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Select(profileColumns).
		Updates(user).Error
}

// Delete deletes the user. The BeforeDelete hook removes tokens and tasks in
// the same transaction.
func (r *GormUserRepository) Delete(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(user)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddToken appends a session token to the user's token list
func (r *GormUserRepository) AddToken(ctx context.Context, userID, token string) error {
	return r.db.WithContext(ctx).Create(&models.UserToken{
		UserID: userID,
		Token:  token,
	}).Error
}

// RemoveToken removes one session token
func (r *GormUserRepository) RemoveToken(ctx context.Context, userID, token string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.UserToken{}).Error
}

// ClearTokens removes every session token of the user
func (r *GormUserRepository) ClearTokens(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.UserToken{}).Error
}

// ListTokens returns the user's tokens in issue order
func (r *GormUserRepository) ListTokens(ctx context.Context, userID string) ([]models.UserToken, error) {
	var tokens []models.UserToken
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

// SetAvatar stores or, with nil, clears the avatar image. Hooks are skipped
// since no validated column changes. MySQL reports zero affected rows for an
// unchanged value, so RowsAffected is not checked.
func (r *GormUserRepository) SetAvatar(ctx context.Context, userID string, avatar []byte) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("avatar", avatar).Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
