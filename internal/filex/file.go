// Package filex holds the small filesystem helpers of a run: locating the
// survey exports and preparing data directories.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dmitrijs2005/mentormatch/internal/common"
)

// ChooseFunc picks one of several candidate paths and returns its index.
// An index out of range selects the first candidate.
type ChooseFunc func(candidates []string) (int, error)

// FindFile returns the file of folder whose name contains name.
// No match is ErrInputNotFound; several matches are handed to choose.
func FindFile(folder, name string, choose ChooseFunc) (string, error) {
	matches, err := filepath.Glob(filepath.Join(folder, "*"+name+"*"))
	if err != nil {
		return "", fmt.Errorf("glob %q: %w", name, err)
	}

	files := matches[:0]
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && !fi.IsDir() {
			files = append(files, m)
		}
	}
	sort.Strings(files)

	switch len(files) {
	case 0:
		return "", fmt.Errorf("%w: no file match %q in %s", common.ErrInputNotFound, name, folder)
	case 1:
		return files[0], nil
	}

	if choose == nil {
		return files[0], nil
	}
	i, err := choose(files)
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(files) {
		i = 0
	}
	return files[i], nil
}

// EnsureDir creates root/sub (and parents) if needed and returns its path.
func EnsureDir(root, sub string) (string, error) {
	dir := filepath.Join(root, sub)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// DirExists reports whether path is an existing directory.
func DirExists(path string) (bool, error) {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it over path, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
