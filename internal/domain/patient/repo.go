package patient

import "context"

type Repository interface {
	// GetByIdentifier returns the pacientes row for a national ID, or an
	// apperr NotFound error when there is none.
	GetByIdentifier(ctx context.Context, cedula string) (*PatientRecord, error)
}
