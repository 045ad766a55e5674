//go:build integration

package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yukikurage/task-manager/internal/config"
	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/testutil"
	"github.com/yukikurage/task-manager/internal/utils"
)

var mysqlDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=secret",
			"MYSQL_DATABASE=task_manager_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}
	_ = resource.Expire(300)

	cfg := &config.Config{
		DBDriver:   config.DriverMySQL,
		DBHost:     "localhost",
		DBPort:     resource.GetPort("3306/tcp"),
		DBUser:     "root",
		DBPassword: "secret",
		DBName:     "task_manager_test",
	}

	pool.MaxWait = 2 * time.Minute
	if err := pool.Retry(func() error {
		dialector, err := database.Dialector(cfg)
		if err != nil {
			return err
		}
		db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}
		mysqlDB = db
		return nil
	}); err != nil {
		log.Fatalf("Could not connect to mysql: %s", err)
	}

	if err := database.Migrate(mysqlDB, zap.NewNop()); err != nil {
		log.Fatalf("Could not migrate: %s", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge resource: %s", err)
	}
	os.Exit(code)
}

func resetMySQL(t *testing.T) *testutil.Fixtures {
	t.Helper()
	for _, table := range []string{"tasks", "user_tokens", "users"} {
		require.NoError(t, mysqlDB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error)
	}
	return testutil.Seed(t, mysqlDB, testutil.NewIssuer())
}

func TestMySQL_MigrateIsIdempotent(t *testing.T) {
	require.NoError(t, database.Migrate(mysqlDB, zap.NewNop()))
	assert.True(t, mysqlDB.Migrator().HasIndex(&models.Task{}, "idx_tasks_owner_created"))
	assert.True(t, mysqlDB.Migrator().HasIndex(&models.UserToken{}, "idx_user_tokens_user_token"))
}

func TestMySQL_ListWithSkipOnly(t *testing.T) {
	f := resetMySQL(t)
	repo := NewTaskRepository(mysqlDB)

	tasks, err := repo.List(context.Background(), f.UserOne.ID, utils.ListParams{SortColumn: "created_at", Skip: 1})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, f.TaskTwo.ID, tasks[0].ID)
}

func TestMySQL_AuthenticateAndCascadeDelete(t *testing.T) {
	f := resetMySQL(t)
	users := NewUserRepository(mysqlDB)
	ctx := context.Background()

	user, err := users.FindByIDAndToken(ctx, f.UserOne.ID, f.UserOneToken)
	require.NoError(t, err)

	require.NoError(t, users.SetAvatar(ctx, user.ID, []byte{0x89, 0x50}))
	// Writing the same value again must not be treated as a missing user.
	require.NoError(t, users.SetAvatar(ctx, user.ID, []byte{0x89, 0x50}))

	require.NoError(t, users.Delete(ctx, user))

	var remaining int64
	require.NoError(t, mysqlDB.Model(&models.Task{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	_, err = users.FindByIDAndToken(ctx, f.UserOne.ID, f.UserOneToken)
	assert.ErrorIs(t, err, ErrNotFound)
}
