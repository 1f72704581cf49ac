package people

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/mentormatch/internal/filex"
	"github.com/dmitrijs2005/mentormatch/internal/models"
)

const (
	recordExt = ".json"
	stateFile = "state.json"
)

// FSRepository keeps people as JSON files under a root folder.
type FSRepository struct {
	root    string
	folders map[models.Role]string
}

func NewFSRepository(root string, folders map[models.Role]string) *FSRepository {
	return &FSRepository{root: root, folders: folders}
}

// fileName turns a record key into a file name. Path separators are
// replaced so that a key always names a file inside the role folder.
func fileName(key string) string {
	key = strings.NewReplacer("/", "_", `\`, "_").Replace(key)
	if key == "" || key == "." || key == ".." {
		key = "_" + key
	}
	return key + recordExt
}

func (r *FSRepository) dir(role models.Role) (string, error) {
	f, err := folderOf(r.folders, role)
	if err != nil {
		return "", err
	}
	return filepath.Join(r.root, f), nil
}

func (r *FSRepository) Save(ctx context.Context, rec models.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := folderOf(r.folders, rec.Role)
	if err != nil {
		return err
	}
	dir, err := filex.EnsureDir(r.root, f)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", rec.Key(), err)
	}
	return filex.WriteFileAtomic(filepath.Join(dir, fileName(rec.Key())), data, 0o660)
}

func (r *FSRepository) List(ctx context.Context, role models.Role) ([]models.Record, error) {
	dir, err := r.dir(role)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != recordExt || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	recs := make([]models.Record, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var rec models.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		rec.Role = role
		recs = append(recs, rec)
	}
	return recs, nil
}

func (r *FSRepository) Exists(_ context.Context, role models.Role) (bool, error) {
	dir, err := r.dir(role)
	if err != nil {
		return false, err
	}
	return filex.DirExists(dir)
}

func (r *FSRepository) Clear(_ context.Context, role models.Role) error {
	dir, err := r.dir(role)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	return nil
}

// Replace writes recs into a sibling staging folder and swaps it in, so the
// role folder holds either the old records or all the new ones.
func (r *FSRepository) Replace(ctx context.Context, role models.Role, recs []models.Record) error {
	dir, err := r.dir(role)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.root, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", r.root, err)
	}
	staging, err := os.MkdirTemp(r.root, "."+filepath.Base(dir)+"-new-")
	if err != nil {
		return fmt.Errorf("create staging folder: %w", err)
	}
	defer os.RemoveAll(staging)

	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec.Role = role
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", rec.Key(), err)
		}
		if err := os.WriteFile(filepath.Join(staging, fileName(rec.Key())), data, 0o660); err != nil {
			return fmt.Errorf("write %s: %w", rec.Key(), err)
		}
	}
	if err := os.Chmod(staging, 0o770); err != nil {
		return fmt.Errorf("chmod %s: %w", staging, err)
	}

	old := staging + ".old"
	hadOld := true
	if err := os.Rename(dir, old); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("move %s aside: %w", dir, err)
		}
		hadOld = false
	}
	if err := os.Rename(staging, dir); err != nil {
		if hadOld {
			_ = os.Rename(old, dir)
		}
		return fmt.Errorf("swap in %s: %w", dir, err)
	}
	if hadOld {
		if err := os.RemoveAll(old); err != nil {
			return fmt.Errorf("remove %s: %w", old, err)
		}
	}
	return nil
}

func (r *FSRepository) readState() (map[string]string, error) {
	path := filepath.Join(r.root, stateFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	state := map[string]string{}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return state, nil
}

func (r *FSRepository) GetMeta(_ context.Context, key string) (string, bool, error) {
	state, err := r.readState()
	if err != nil {
		return "", false, err
	}
	v, ok := state[key]
	return v, ok, nil
}

func (r *FSRepository) SetMeta(_ context.Context, key, value string) error {
	state, err := r.readState()
	if err != nil {
		return err
	}
	state[key] = value

	if _, err := filex.EnsureDir(r.root, ""); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(filepath.Join(r.root, stateFile), data, 0o660)
}

func (r *FSRepository) Close() error { return nil }
