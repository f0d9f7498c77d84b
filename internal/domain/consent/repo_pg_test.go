package consent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsm/patient-adapter/internal/platform/apperr"
)

type fakeRow struct {
	scan func(dest ...interface{}) error
}

func (r fakeRow) Scan(dest ...interface{}) error { return r.scan(dest...) }

type fakeQuerier struct {
	sql  string
	args []interface{}

	row     fakeRow
	tag     pgconn.CommandTag
	execErr error
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	q.sql, q.args = sql, args
	return q.row
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	q.sql, q.args = sql, args
	return q.tag, q.execErr
}

func rowErr(err error) fakeRow {
	return fakeRow{scan: func(...interface{}) error { return err }}
}

func testChange() *ConsentChange {
	return &ConsentChange{
		Cedula:    "0912345678",
		Status:    "1",
		TipoEnvio: "EMAIL",
		Usuario:   "recepcion01",
		At:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRepoPG_GetByIdentifier_LatestRow(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{scan: func(dest ...interface{}) error {
		require.Len(t, dest, 9)
		*dest[0].(*int64) = 8
		*dest[2].(*string) = "0912345678"
		return nil
	}}}
	repo := &repoPG{db: q}

	rec, err := repo.GetByIdentifier(context.Background(), "0912345678")
	require.NoError(t, err)
	assert.Equal(t, int64(8), rec.ID)
	assert.Contains(t, q.sql, "WHERE cedula = $1")
	assert.Contains(t, q.sql, "ORDER BY COALESCE(fecha_act, fecha) DESC, id DESC LIMIT 1")
	assert.Equal(t, []interface{}{"0912345678"}, q.args)
}

func TestRepoPG_GetByIdentifier_NotFound(t *testing.T) {
	repo := &repoPG{db: &fakeQuerier{row: rowErr(pgx.ErrNoRows)}}

	_, err := repo.GetByIdentifier(context.Background(), "999")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, "No records found for ID: 999", err.Error())
}

func TestRepoPG_Create(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{scan: func(dest ...interface{}) error {
		*dest[0].(*int64) = 42
		return nil
	}}}
	repo := &repoPG{db: q}

	ack, err := repo.Create(context.Background(), testChange())
	require.NoError(t, err)
	assert.Equal(t, &Ack{Code: 201, Message: "Record created with ID: 42"}, ack)
	assert.Contains(t, q.sql, "ON CONFLICT (cedula, tipo_envio) DO NOTHING")
	assert.Contains(t, q.sql, "RETURNING id")
	assert.Equal(t, RecordTypePatient, q.args[0])
	assert.Equal(t, "0912345678", q.args[1])
}

func TestRepoPG_Create_Conflict(t *testing.T) {
	tests := map[string]error{
		"on conflict skipped": pgx.ErrNoRows,
		"unique violation":    &pgconn.PgError{Code: "23505", Message: "duplicate key"},
	}
	for name, scanErr := range tests {
		t.Run(name, func(t *testing.T) {
			repo := &repoPG{db: &fakeQuerier{row: rowErr(scanErr)}}

			_, err := repo.Create(context.Background(), testChange())
			assert.True(t, errors.Is(err, apperr.ErrConflict), "expected ErrConflict, got %v", err)
			assert.Equal(t, "Record already exists for ID: 0912345678", err.Error())
		})
	}
}

func TestRepoPG_Create_OtherError(t *testing.T) {
	repo := &repoPG{db: &fakeQuerier{row: rowErr(&pgconn.PgError{Code: "23502", Message: "not null"})}}

	_, err := repo.Create(context.Background(), testChange())
	require.Error(t, err)
	_, ok := apperr.As(err)
	assert.False(t, ok, "non-unique failures must stay opaque")
	assert.True(t, strings.HasPrefix(err.Error(), "consent create:"))
}

func TestRepoPG_Update(t *testing.T) {
	q := &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 1")}
	repo := &repoPG{db: q}

	ack, err := repo.Update(context.Background(), testChange())
	require.NoError(t, err)
	assert.Equal(t, &Ack{Code: 200, Message: "Record updated for ID: 0912345678"}, ack)
	assert.Contains(t, q.sql, "WHERE cedula = $4 AND tipo_envio = $5")
}

func TestRepoPG_Update_NoRows(t *testing.T) {
	repo := &repoPG{db: &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 0")}}

	_, err := repo.Update(context.Background(), testChange())
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestRepoPG_Update_ExecError(t *testing.T) {
	dbErr := errors.New("connection reset")
	repo := &repoPG{db: &fakeQuerier{execErr: dbErr}}

	_, err := repo.Update(context.Background(), testChange())
	assert.True(t, errors.Is(err, dbErr))
}
