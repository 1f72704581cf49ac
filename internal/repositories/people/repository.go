package people

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mentormatch/internal/common"
	"github.com/dmitrijs2005/mentormatch/internal/config"
	"github.com/dmitrijs2005/mentormatch/internal/models"
)

// MetaLastRun is the metadata key holding the date of the last run,
// formatted with LastRunLayout.
const (
	MetaLastRun   = "last_run"
	LastRunLayout = "2006-01-02"
)

// Repository stores people between runs.
type Repository interface {
	// Save inserts rec or overwrites the record stored under the same key.
	Save(ctx context.Context, rec models.Record) error
	// List returns the stored records of role ordered by key.
	List(ctx context.Context, role models.Role) ([]models.Record, error)
	// Exists reports whether anything was ever stored for role.
	Exists(ctx context.Context, role models.Role) (bool, error)
	// Clear removes every record of role.
	Clear(ctx context.Context, role models.Role) error
	// Replace makes recs the only stored records of role.
	Replace(ctx context.Context, role models.Role, recs []models.Record) error

	GetMeta(ctx context.Context, key string) (string, bool, error)
	SetMeta(ctx context.Context, key, value string) error

	Close() error
}

// Open returns the Repository selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (Repository, error) {
	folders := map[models.Role]string{
		models.RoleMentor: cfg.MentorsFolder,
		models.RoleMentee: cfg.MenteesFolder,
	}

	switch cfg.StoreDriver {
	case config.DriverFS:
		return NewFSRepository(cfg.DataFolder, folders), nil
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLiteDSN())
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DatabaseDSN)
	case config.DriverS3:
		return OpenS3(ctx, S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PathStyle:       cfg.S3PathStyle,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Prefix:          cfg.DataFolder,
		}, folders)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownDriver, cfg.StoreDriver)
	}
}

func folderOf(folders map[models.Role]string, role models.Role) (string, error) {
	f, ok := folders[role]
	if !ok || f == "" {
		return "", fmt.Errorf("no folder for role %q", role)
	}
	return f, nil
}
