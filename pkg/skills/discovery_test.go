package skills

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, root, dirName, content string) string {
	t.Helper()
	dir := filepath.Join(root, dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))
	return dir
}

func TestScan(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	demoDir := writeSkill(t, tmpDir, "demo", `---
name: Demo
description: test skill
---

Do X.
`)
	writeSkill(t, tmpDir, "plain", "Plain instructions.\n")

	// directory without SKILL.md is skipped
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "not-a-skill"), 0o755))
	// regular files at the root are ignored
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte("readme"), 0o644))

	repo := Scan(ctx, tmpDir)
	assert.Equal(t, 2, repo.Len())
	assert.Equal(t, []string{"Demo", "plain"}, skillNames(repo))

	demo, err := repo.Get("Demo")
	require.NoError(t, err)
	assert.Equal(t, "test skill", demo.Description)
	assert.Equal(t, "Do X.", demo.Content)
	assert.Equal(t, demoDir, demo.Directory)

	plain, err := repo.Get("plain")
	require.NoError(t, err)
	assert.Equal(t, DefaultDescription, plain.Description)
}

func TestScanMissingRoot(t *testing.T) {
	repo := Scan(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Equal(t, 0, repo.Len())
	assert.Empty(t, repo.List())
}

func TestScanRootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "skills")
	require.NoError(t, os.WriteFile(file, []byte("not a dir"), 0o644))

	repo := Scan(context.Background(), file)
	assert.Equal(t, 0, repo.Len())
}

func TestScanSkillFileMustBeRegular(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "odd", "SKILL.md"), 0o755))

	repo := Scan(context.Background(), tmpDir)
	assert.Equal(t, 0, repo.Len())
}

func TestScanDuplicateNamesLaterDirectoryWins(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "a-first", "---\nname: shared\ndescription: from a\n---\nA")
	writeSkill(t, tmpDir, "b-middle", "---\nname: other\n---\nB")
	writeSkill(t, tmpDir, "c-last", "---\nname: shared\ndescription: from c\n---\nC")

	repo := Scan(context.Background(), tmpDir)
	require.Equal(t, 2, repo.Len())

	// the replaced entry keeps its original position
	assert.Equal(t, []string{"shared", "other"}, skillNames(repo))

	shared, err := repo.Get("shared")
	require.NoError(t, err)
	assert.Equal(t, "from c", shared.Description)
	assert.Equal(t, "C", shared.Content)
}

func TestScanWithSymlinkedSkill(t *testing.T) {
	tmpDir := t.TempDir()
	skillsDir := filepath.Join(tmpDir, "skills")
	require.NoError(t, os.MkdirAll(skillsDir, 0o755))

	actual := writeSkill(t, tmpDir, "elsewhere", "---\nname: linked\n---\nLinked body")
	require.NoError(t, os.Symlink(actual, filepath.Join(skillsDir, "linked")))

	repo := Scan(context.Background(), skillsDir)
	skill, err := repo.Get("linked")
	require.NoError(t, err)
	assert.Equal(t, "Linked body", skill.Content)
	assert.Equal(t, filepath.Join(skillsDir, "linked"), skill.Directory)
}

func TestRepositoryGet(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "demo", "---\nname: Demo\n---\nBody")
	repo := Scan(context.Background(), tmpDir)

	_, err := repo.Get("demo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSkillNotFound), "lookup is exact and case sensitive")

	_, err = repo.Get("Demo")
	assert.NoError(t, err)
}

func TestRepositoryLookup(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "demo", "---\nname: Demo\n---\nBody")
	writeSkill(t, tmpDir, "other", "---\nname: demo-tools\n---\nTools")
	repo := Scan(context.Background(), tmpDir)

	skill, err := repo.Lookup("Demo")
	require.NoError(t, err)
	assert.Equal(t, "Body", skill.Content)

	skill, err = repo.Lookup("demo")
	require.NoError(t, err, "directory name resolves when no skill has that name")
	assert.Equal(t, "Demo", skill.Name)

	skill, err = repo.Lookup("demo-tools")
	require.NoError(t, err)
	assert.Equal(t, "Tools", skill.Content)

	_, err = repo.Lookup("DEMO")
	assert.True(t, errors.Is(err, ErrSkillNotFound))
}

func TestRepositoryListIsACopy(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "one", "Body")
	repo := Scan(context.Background(), tmpDir)

	list := repo.List()
	list[0] = &Skill{Name: "mutated"}
	assert.Equal(t, []string{"one"}, skillNames(repo))
}

func TestRepositoryClosest(t *testing.T) {
	repo := NewRepository("/skills")
	repo.add(&Skill{Name: "writer"})
	repo.add(&Skill{Name: "reviewer"})

	name, ok := repo.Closest("writr")
	assert.True(t, ok)
	assert.Equal(t, "writer", name)

	_, ok = repo.Closest("completely-different")
	assert.False(t, ok)

	_, ok = NewRepository("/skills").Closest("writer")
	assert.False(t, ok)
}

func skillNames(repo *Repository) []string {
	var names []string
	for _, skill := range repo.List() {
		names = append(names, skill.Name)
	}
	return names
}
