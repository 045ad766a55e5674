package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/testutil"
)

func TestTask_BeforeSave(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db, testutil.NewIssuer())

	task := &models.Task{Description: "  Water plants \n", OwnerID: f.UserTwo.ID}
	require.NoError(t, db.Create(task).Error)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Water plants", task.Description)
	assert.False(t, task.Completed)
}

func TestTask_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db, testutil.NewIssuer())

	var verr *models.ValidationError

	err := db.Create(&models.Task{Description: "   ", OwnerID: f.UserOne.ID}).Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "description", verr.Field)

	err = db.Create(&models.Task{Description: "Orphan"}).Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "owner", verr.Field)
}
