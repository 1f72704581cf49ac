package filex

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dmitrijs2005/mentormatch/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	return p
}

func TestFindFile_SingleMatch(t *testing.T) {
	dir := t.TempDir()
	want := touch(t, dir, "Mentors 2019 (responses).csv")
	touch(t, dir, "Mentees 2019 (responses).csv")

	got, err := FindFile(dir, "Mentors", func([]string) (int, error) {
		t.Fatal("chooser must not be called for a single match")
		return 0, nil
	})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFindFile_NoMatch(t *testing.T) {
	_, err := FindFile(t.TempDir(), "mentors", nil)
	require.ErrorIs(t, err, common.ErrInputNotFound)
}

func TestFindFile_Ambiguous(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, dir, "a-mentees.csv")
	b := touch(t, dir, "b-mentees.csv")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "mentees-archive"), 0o700))

	var offered []string
	got, err := FindFile(dir, "mentees", func(c []string) (int, error) {
		offered = c
		return 1, nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{a, b}, offered)
	require.Equal(t, b, got)

	got, err = FindFile(dir, "mentees", func([]string) (int, error) { return 7, nil })
	require.NoError(t, err)
	require.Equal(t, a, got, "invalid selection falls back to the first match")

	boom := errors.New("eof")
	_, err = FindFile(dir, "mentees", func([]string) (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
}

func TestEnsureDir_CreatesAndIsIdempotent(t *testing.T) {
	root := t.TempDir()

	first, err := EnsureDir(root, filepath.Join("data", "mentors"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "data", "mentors"), first)

	second, err := EnsureDir(root, filepath.Join("data", "mentors"))
	require.NoError(t, err)
	require.Equal(t, first, second)

	fi, err := os.Stat(first)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "data")

	_, err := EnsureDir(root, "data")
	require.Error(t, err)
}

func TestDirExists(t *testing.T) {
	root := t.TempDir()
	ok, err := DirExists(filepath.Join(root, "nope"))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = DirExists(root)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = DirExists(touch(t, root, "f"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWriteFileAtomic_ReplacesContentAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ada.lovelace.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o600))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o600))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "x.json"), []byte("x"), 0o600)
	require.Error(t, err)
}
