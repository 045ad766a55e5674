package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/task-manager/internal/models"
)

// AddIndexes adds the composite indexes used by listing and token lookups.
// The statement is plain CREATE INDEX so it runs on every supported driver.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Default listing order within an owner
		{&models.Task{}, "tasks", "idx_tasks_owner_created", "owner_id, created_at"},
		// Token lookup from the auth middleware
		{&models.UserToken{}, "user_tokens", "idx_user_tokens_user_token", "user_id, token"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
