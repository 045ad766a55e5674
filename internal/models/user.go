package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null" json:"-"`
	Age          int       `gorm:"not null;default:0" json:"age" validate:"gte=0"`
	Avatar       []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Password carries a plaintext password until BeforeSave hashes it.
	// It is never persisted.
	Password string `gorm:"-" json:"-" validate:"omitempty,password"`

	// passwordPending marks an explicit password change, so a blank value is
	// rejected instead of silently keeping the old hash.
	passwordPending bool

	// Relations
	Tokens []UserToken `gorm:"foreignKey:UserID" json:"-" validate:"-"`
	Tasks  []Task      `gorm:"foreignKey:OwnerID" json:"-" validate:"-"`
}

// UserToken is one issued session token. Insertion order is the token order.
type UserToken struct {
	ID        uint64    `gorm:"primarykey" json:"-"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"-"`
	Token     string    `gorm:"type:varchar(512);not null;index" json:"-"`
	CreatedAt time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave normalises and validates the user and hashes a pending
// plaintext password, so only hashes reach the database.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Password = strings.TrimSpace(u.Password)

	if u.Password == "" && (u.PasswordHash == "" || u.passwordPending) {
		return &ValidationError{Field: "password", Message: "is required"}
	}
	if err := validateStruct(u); err != nil {
		return err
	}

	if u.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = string(hashed)
		u.Password = ""
		u.passwordPending = false
	}
	return nil
}

// SetPassword stages a new plaintext password. BeforeSave validates and
// hashes it, rejecting a blank value.
func (u *User) SetPassword(password string) {
	u.Password = password
	u.passwordPending = true
}

// BeforeDelete removes the user's tokens and tasks. gorm runs the hook inside
// the transaction that deletes the user, so the cascade is atomic.
func (u *User) BeforeDelete(tx *gorm.DB) error {
	if u.ID == "" {
		return fmt.Errorf("cannot delete user without id")
	}
	if err := tx.Where("owner_id = ?", u.ID).Delete(&Task{}).Error; err != nil {
		return fmt.Errorf("failed to delete tasks of user %s: %w", u.ID, err)
	}
	if err := tx.Where("user_id = ?", u.ID).Delete(&UserToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete tokens of user %s: %w", u.ID, err)
	}
	return nil
}

// CheckPassword compares a plaintext password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HasAvatar reports whether an avatar image is stored.
func (u *User) HasAvatar() bool {
	return len(u.Avatar) > 0
}
