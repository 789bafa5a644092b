package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListResourceFiles(t *testing.T) {
	_, skillDir := setupSkillDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte("Body"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(skillDir, "scripts", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "scripts", "nested", "run.sh"), []byte("echo"), 0o644))

	t.Run("all files", func(t *testing.T) {
		files, err := ListResourceFiles(skillDir, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"notes.txt", "reference/api.md", "scripts/nested/run.sh"}, files)
	})

	t.Run("glob pattern", func(t *testing.T) {
		files, err := ListResourceFiles(skillDir, "**/*.md")
		require.NoError(t, err)
		assert.Equal(t, []string{"reference/api.md"}, files)
	})

	t.Run("no match", func(t *testing.T) {
		files, err := ListResourceFiles(skillDir, "*.pdf")
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := ListResourceFiles(skillDir, "[")
		require.Error(t, err)
		assert.True(t, errors.Is(err, doublestar.ErrBadPattern))
	})
}

func TestListResourceFilesSymlinkedSkillDir(t *testing.T) {
	_, skillDir := setupSkillDir(t)
	link := filepath.Join(t.TempDir(), "linked")
	require.NoError(t, os.Symlink(skillDir, link))

	files, err := ListResourceFiles(link, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt", "reference/api.md"}, files)
}
