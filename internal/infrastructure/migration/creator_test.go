package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_WritesPair(t *testing.T) {
	dir := t.TempDir()

	p, err := Create(dir, "Add User Presence")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(p.UpPath, "_add_user_presence.up.sql"))
	assert.True(t, strings.HasSuffix(p.DownPath, "_add_user_presence.down.sql"))
	assert.Len(t, p.Version, 14)

	for _, path := range []string{p.UpPath, p.DownPath} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Add User Presence")
	}
}

func TestCreate_MakesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := Create(dir, "init")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestList_ReturnsUpBaseNames(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"20240101000000_init.up.sql",
		"20240101000000_init.down.sql",
		"20240201000000_add_tasks.up.sql",
		"20240201000000_add_tasks.down.sql",
		"README.md",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
	}

	names, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240101000000_init", "20240201000000_add_tasks"}, names)
}

func TestList_MissingDirectoryIsEmpty(t *testing.T) {
	names, err := List(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Add User Presence", "add_user_presence"},
		{"add-chat-messages", "add_chat_messages"},
		{"  spaced  out  ", "spaced_out"},
		{"v2 schema!", "v2_schema"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), tt.in)
	}
}
