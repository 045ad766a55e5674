package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAllowed(t *testing.T) {
	require.NoError(t, checkAllowed(map[string]any{}, "description", "completed"))
	require.NoError(t, checkAllowed(map[string]any{"completed": true}, "description", "completed"))

	err := checkAllowed(map[string]any{"owner": "x", "completed": true, "_id": "y"}, "description", "completed")
	require.ErrorIs(t, err, ErrInvalidUpdates)
	assert.Contains(t, err.Error(), "_id, owner")
}

func TestTypedFields(t *testing.T) {
	updates := map[string]any{
		"name":      "Mike",
		"completed": false,
		"age":       float64(27),
		"fraction":  1.5,
		"wrong":     12.0,
	}

	name, ok, err := stringField(updates, "name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Mike", name)

	_, ok, err = stringField(updates, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = stringField(updates, "wrong")
	assert.ErrorIs(t, err, ErrInvalidUpdates)

	completed, ok, err := boolField(updates, "completed")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, completed)

	_, _, err = boolField(updates, "name")
	assert.ErrorIs(t, err, ErrInvalidUpdates)

	age, ok, err := intField(updates, "age")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 27, age)

	_, _, err = intField(updates, "fraction")
	assert.ErrorIs(t, err, ErrInvalidUpdates)

	_, _, err = intField(updates, "name")
	assert.ErrorIs(t, err, ErrInvalidUpdates)
}
