package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Description string    `gorm:"type:text;not null" json:"description" validate:"required"`
	Completed   bool      `gorm:"not null;default:false;index:idx_tasks_owner_completed,priority:2" json:"completed"`
	OwnerID     string    `gorm:"type:varchar(36);not null;index:idx_tasks_owner_completed,priority:1" json:"owner" validate:"required"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner *User `gorm:"foreignKey:OwnerID" json:"-" validate:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Task) BeforeSave(tx *gorm.DB) error {
	t.Description = strings.TrimSpace(t.Description)
	return validateStruct(t)
}
