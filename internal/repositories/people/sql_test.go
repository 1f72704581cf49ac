package people

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mentormatch/internal/dbx"
	"github.com/dmitrijs2005/mentormatch/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLRepository {
	t.Helper()
	r, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLite_SaveListRoundTrip(t *testing.T) {
	r := openSQLite(t)
	ctx := context.Background()

	grace := mentorRec("Grace", "Hopper", "grace@example.com", 1)
	ada := mentorRec("Ada", "Lovelace", "ada@example.com", 2)
	require.NoError(t, r.Save(ctx, grace))
	require.NoError(t, r.Save(ctx, ada))

	got, err := r.List(ctx, models.RoleMentor)
	require.NoError(t, err)
	if diff := cmp.Diff([]models.Record{ada, grace}, got); diff != "" {
		t.Fatalf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLite_UpsertExistsReplaceClear(t *testing.T) {
	r := openSQLite(t)
	ctx := context.Background()

	ok, err := r.Exists(ctx, models.RoleMentee)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Save(ctx, menteeRec("Alan", "Turing", "old@example.com")))
	require.NoError(t, r.Save(ctx, menteeRec("Alan", "Turing", "alan@example.com")))
	require.NoError(t, r.Save(ctx, menteeRec("Edsger", "Dijkstra", "ewd@example.com")))

	got, err := r.List(ctx, models.RoleMentee)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alan@example.com", got[0].Email)

	require.NoError(t, r.Replace(ctx, models.RoleMentee, []models.Record{menteeRec("Barbara", "Liskov", "b@example.com")}))
	got, err = r.List(ctx, models.RoleMentee)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Barbara", got[0].GivenName)

	require.NoError(t, r.Clear(ctx, models.RoleMentee))
	ok, err = r.Exists(ctx, models.RoleMentee)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLite_Meta(t *testing.T) {
	r := openSQLite(t)
	ctx := context.Background()

	_, ok, err := r.GetMeta(ctx, MetaLastRun)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.SetMeta(ctx, MetaLastRun, "2019-08-01"))
	require.NoError(t, r.SetMeta(ctx, MetaLastRun, "2019-08-15"))

	v, ok, err := r.GetMeta(ctx, MetaLastRun)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2019-08-15", v)
}

func newMockRepo(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db, dbx.Dollar), mock
}

func TestPostgresStyle_SaveUsesDollarPlaceholders(t *testing.T) {
	r, mock := newMockRepo(t)

	q := `(?s)INSERT\s+INTO\s+people\s*\(role,\s*key,\s*email,\s*data\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)`
	mock.ExpectExec(q).
		WithArgs("mentor", "ada.lovelace", "ada@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Save(context.Background(), mentorRec("Ada", "Lovelace", "ada@example.com", 0)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStyle_ReplaceRollsBackOnError(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE\s+FROM\s+people\s+WHERE\s+role\s*=\s*\$1`).
		WithArgs("mentee").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT\s+INTO\s+people`).
		WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	err := r.Replace(context.Background(), models.RoleMentee, []models.Record{menteeRec("Alan", "Turing", "alan@example.com")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStyle_GetMetaErrors(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT\s+value\s+FROM\s+metadata\s+WHERE\s+key\s*=\s*\$1`).
		WithArgs(MetaLastRun).
		WillReturnError(errors.New("boom"))

	_, _, err := r.GetMeta(context.Background(), MetaLastRun)
	require.Error(t, err)
}

func TestPostgresStyle_ListBadJSON(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT\s+key,\s*data\s+FROM\s+people`).
		WithArgs("mentor").
		WillReturnRows(sqlmock.NewRows([]string{"key", "data"}).AddRow("ada.lovelace", "{"))

	_, err := r.List(context.Background(), models.RoleMentor)
	require.Error(t, err)
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "migrations/postgres" {
			return errors.New("unexpected dir")
		}
		return errors.New("migrate fail")
	}
	defer func() { gooseUpContext = orig }()

	err = runMigrations(context.Background(), db, "postgres", "migrations/postgres")
	require.EqualError(t, err, "migrate fail")
}
