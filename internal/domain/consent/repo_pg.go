package consent

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hsm/patient-adapter/internal/platform/apperr"
)

const pgUniqueViolation = "23505"

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	db querier
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{db: pool}
}

const consentCols = `id, tipo, cedula, status, fecha, email, tipo_envio, usuario, fecha_act`

func (r *repoPG) GetByIdentifier(ctx context.Context, cedula string) (*ConsentRecord, error) {
	var c ConsentRecord
	err := r.db.QueryRow(ctx, `SELECT `+consentCols+` FROM pdp WHERE cedula = $1
		ORDER BY COALESCE(fecha_act, fecha) DESC, id DESC LIMIT 1`, cedula).Scan(
		&c.ID, &c.Tipo, &c.Cedula, &c.Status, &c.Fecha, &c.Email, &c.TipoEnvio, &c.Usuario, &c.FechaAct,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("No records found for ID: %s", cedula)
		}
		return nil, fmt.Errorf("consent get by identifier: %w", err)
	}
	return &c, nil
}

// Create relies on UNIQUE (cedula, tipo_envio) and the identity column, so the
// existence check and id allocation happen in one statement.
func (r *repoPG) Create(ctx context.Context, c *ConsentChange) (*Ack, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO pdp (tipo, cedula, status, fecha, fecha_act, tipo_envio, usuario)
		VALUES ($1, $2, $3, $4, $4, $5, NULLIF($6, ''))
		ON CONFLICT (cedula, tipo_envio) DO NOTHING
		RETURNING id`,
		RecordTypePatient, c.Cedula, c.Status, c.At, c.TipoEnvio, c.Usuario,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return nil, apperr.Conflict("Record already exists for ID: %s", c.Cedula)
		}
		return nil, fmt.Errorf("consent create: %w", err)
	}
	return createdAck(id), nil
}

func (r *repoPG) Update(ctx context.Context, c *ConsentChange) (*Ack, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE pdp SET status = $1, fecha_act = $2, usuario = COALESCE(NULLIF($3, ''), usuario)
		WHERE cedula = $4 AND tipo_envio = $5`,
		c.Status, c.At, c.Usuario, c.Cedula, c.TipoEnvio,
	)
	if err != nil {
		return nil, fmt.Errorf("consent update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("No records found for ID: %s", c.Cedula)
	}
	return updatedAck(c.Cedula), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
