// Package testutil provides an in-memory database seeded with a fixed set
// of users and tasks for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/task-manager/internal/auth"
	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/models"
)

const (
	// JWTSecret signs every token issued in tests.
	JWTSecret = "test-secret"

	UserOnePassword = "56what!!"
	UserTwoPassword = "myhouse099@@"
)

// Fixtures are the seeded records. Passwords are kept in plaintext for
// login tests.
type Fixtures struct {
	UserOne      *models.User
	UserOneToken string
	UserTwo      *models.User
	UserTwoToken string

	TaskOne   *models.Task
	TaskTwo   *models.Task
	TaskThree *models.Task
}

// NewDB opens a private in-memory SQLite database with the schema applied.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

// NewIssuer returns a token issuer using JWTSecret and no expiry.
func NewIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer(JWTSecret, 0)
}

// Seed inserts two users, each with one session token, and three tasks:
// two owned by UserOne (one open, one completed) and one owned by UserTwo.
func Seed(t testing.TB, db *gorm.DB, issuer *auth.TokenIssuer) *Fixtures {
	t.Helper()

	f := &Fixtures{
		UserOne: &models.User{
			Name:     "Mike",
			Email:    "mike@example.com",
			Password: UserOnePassword,
		},
		UserTwo: &models.User{
			Name:     "Jess",
			Email:    "jess@example.com",
			Password: UserTwoPassword,
		},
	}

	f.UserOneToken = seedUser(t, db, issuer, f.UserOne)
	f.UserTwoToken = seedUser(t, db, issuer, f.UserTwo)

	// Distinct creation times keep the default ordering deterministic.
	base := time.Now().Add(-time.Hour).UTC()
	f.TaskOne = seedTask(t, db, &models.Task{
		Description: "First task",
		OwnerID:     f.UserOne.ID,
		CreatedAt:   base,
	})
	f.TaskTwo = seedTask(t, db, &models.Task{
		Description: "Second task",
		Completed:   true,
		OwnerID:     f.UserOne.ID,
		CreatedAt:   base.Add(time.Minute),
	})
	f.TaskThree = seedTask(t, db, &models.Task{
		Description: "Third task",
		Completed:   true,
		OwnerID:     f.UserTwo.ID,
		CreatedAt:   base.Add(2 * time.Minute),
	})

	return f
}

func seedUser(t testing.TB, db *gorm.DB, issuer *auth.TokenIssuer, user *models.User) string {
	t.Helper()

	require.NoError(t, db.Create(user).Error)

	token, err := issuer.Generate(user.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.UserToken{UserID: user.ID, Token: token}).Error)

	return token
}

func seedTask(t testing.TB, db *gorm.DB, task *models.Task) *models.Task {
	t.Helper()
	require.NoError(t, db.Create(task).Error)
	return task
}
