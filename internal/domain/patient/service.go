package patient

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hsm/patient-adapter/internal/platform/apperr"
	"github.com/hsm/patient-adapter/internal/platform/fhir"
)

type Service struct {
	repo   Repository
	now    func() time.Time
	logger zerolog.Logger
}

// NewService creates the patient service. A nil clock defaults to time.Now.
func NewService(repo Repository, clock func() time.Time, logger zerolog.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:   repo,
		now:    clock,
		logger: logger.With().Str("component", "patient").Logger(),
	}
}

// GetRecord looks up the pacientes row for a national ID.
func (s *Service) GetRecord(ctx context.Context, cedula string) (*PatientRecord, error) {
	cedula = strings.TrimSpace(cedula)
	if cedula == "" {
		return nil, apperr.Invalid("identifier is required")
	}
	return s.repo.GetByIdentifier(ctx, cedula)
}

func (s *Service) GetPatient(ctx context.Context, cedula string) (*fhir.Patient, error) {
	rec, err := s.GetRecord(ctx, cedula)
	if err != nil {
		return nil, err
	}
	if _, ok := GenderFor(rec.Sexo); !ok {
		s.logger.Warn().
			Str("mrn", rec.MRN()).
			Str("sexo", deref(rec.Sexo)).
			Msg("unrecognized sex code, reporting gender as female")
	}
	return BuildPatientResource(rec, s.now()), nil
}

func (s *Service) GetPaciente(ctx context.Context, cedula string) (*PacienteResponse, error) {
	rec, err := s.GetRecord(ctx, cedula)
	if err != nil {
		return nil, err
	}
	return BuildPaciente(rec, s.now()), nil
}
