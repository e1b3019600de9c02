package localstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSnapshot struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Kilos float64 `json:"kilos"`
}

func TestApi_SaveLoadDelete(t *testing.T) {
	api, err := NewApi(t.TempDir())
	require.NoError(t, err)

	var loaded testSnapshot
	found, err := api.Load("user-1", "workout", &loaded)
	require.NoError(t, err)
	assert.False(t, found)

	saved := testSnapshot{Name: "leg day", Count: 3, Kilos: 102.5}
	require.NoError(t, api.Save("user-1", "workout", saved))

	found, err = api.Load("user-1", "workout", &loaded)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved, loaded)

	// another user and store do not see it
	found, err = api.Load("user-2", "workout", &loaded)
	require.NoError(t, err)
	assert.False(t, found)
	found, err = api.Load("user-1", "diet", &loaded)
	require.NoError(t, err)
	assert.False(t, found)

	// overwrite keeps the latest state
	saved.Count = 5
	require.NoError(t, api.Save("user-1", "workout", saved))
	found, err = api.Load("user-1", "workout", &loaded)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 5, loaded.Count)

	require.NoError(t, api.Delete("user-1", "workout"))
	found, err = api.Load("user-1", "workout", &loaded)
	require.NoError(t, err)
	assert.False(t, found)

	// deleting a missing snapshot is fine
	require.NoError(t, api.Delete("user-1", "workout"))
}

func TestNewApi_EmptyRoot(t *testing.T) {
	_, err := NewApi("")
	assert.Error(t, err)
}
