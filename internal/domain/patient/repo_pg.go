package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hsm/patient-adapter/internal/platform/apperr"
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	db querier
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{db: pool}
}

const patientCols = `cedula, tipo_identificacion, numero_hc,
	primer_nombre, segundo_nombre, apellido_paterno, apellido_materno,
	fecha_nacimiento, sexo, estado_civil, nacionalidad, lugar_nacimiento,
	telefono, email,
	direccion_domicilio, prq_cnt_prv_codigo, prq_cnt_codigo, prq_codigo, direccion_trabajo`

func (r *repoPG) GetByIdentifier(ctx context.Context, cedula string) (*PatientRecord, error) {
	rec, err := scanPatient(r.db.QueryRow(ctx, `SELECT `+patientCols+` FROM pacientes WHERE cedula = $1`, cedula))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("No records found for ID: %s", cedula)
		}
		return nil, fmt.Errorf("patient get by identifier: %w", err)
	}
	return rec, nil
}

func scanPatient(row pgx.Row) (*PatientRecord, error) {
	var p PatientRecord
	err := row.Scan(
		&p.Cedula, &p.TipoIdentificacion, &p.NumeroHC,
		&p.PrimerNombre, &p.SegundoNombre, &p.ApellidoPaterno, &p.ApellidoMaterno,
		&p.FechaNacimiento, &p.Sexo, &p.EstadoCivil, &p.Nacionalidad, &p.LugarNacimiento,
		&p.Telefono, &p.Email,
		&p.DireccionDomicilio, &p.DistritoDomicilio, &p.CiudadDomicilio, &p.ProvinciaDomicilio, &p.DireccionTrabajo,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
