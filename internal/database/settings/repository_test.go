package settings

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readkeep/tbrlist/internal/database"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()
	dbPath := "./test_settings_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	repo := NewRepository(db.DB)
	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return repo, cleanup
}

func TestGet_CreatesDefaults(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	settings, err := repo.Get()
	require.NoError(t, err)
	assert.NotZero(t, settings.ID)
	assert.Equal(t, "light", settings.Theme)
	assert.Equal(t, "grid", settings.CardLayout)
	assert.True(t, settings.ShowPriority)
	assert.Equal(t, "priority", settings.DefaultSort)
	assert.True(t, settings.Notifications)
	assert.False(t, settings.AutoBackup)

	// Repeated reads return the same singleton row.
	again, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID)
}

func TestUpdate(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	current, err := repo.Get()
	require.NoError(t, err)

	next := *current
	next.Theme = "dark"
	next.ShowPriority = false
	next.Notifications = false
	next.AutoBackup = true

	saved, err := repo.Update(next)
	require.NoError(t, err)
	assert.Equal(t, current.ID, saved.ID)

	reread, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, "dark", reread.Theme)
	// False booleans must survive the write.
	assert.False(t, reread.ShowPriority)
	assert.False(t, reread.Notifications)
	assert.True(t, reread.AutoBackup)
	assert.Equal(t, "grid", reread.CardLayout)
}
