package consent

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hsm/patient-adapter/internal/domain/patient"
	"github.com/hsm/patient-adapter/internal/platform/apperr"
	"github.com/hsm/patient-adapter/internal/platform/auth"
	"github.com/hsm/patient-adapter/internal/platform/fhir"
)

// CategoryPrivacy selects the single privacy Consent instead of a Bundle.
const CategoryPrivacy = "privacy"

// PatientLookup resolves the patient a consent belongs to.
type PatientLookup interface {
	GetRecord(ctx context.Context, cedula string) (*patient.PatientRecord, error)
}

// Query selects the consents of a patient. Category and Status are accepted
// for compatibility; only the privacy consent is stored.
type Query struct {
	Identifier string
	Category   string
	Status     string
}

type Service struct {
	repo     Repository
	patients PatientLookup
	now      func() time.Time
	logger   zerolog.Logger
}

// NewService creates the consent service. A nil clock defaults to time.Now.
func NewService(repo Repository, patients PatientLookup, clock func() time.Time, logger zerolog.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:     repo,
		patients: patients,
		now:      clock,
		logger:   logger.With().Str("component", "consent").Logger(),
	}
}

// GetPatientConsent returns the privacy Consent when the privacy category is
// requested and a searchset Bundle holding it otherwise.
func (s *Service) GetPatientConsent(ctx context.Context, q Query) (interface{}, error) {
	pat, err := s.patients.GetRecord(ctx, q.Identifier)
	if err != nil {
		return nil, err
	}

	evt := s.logger.Debug().Str("cedula", pat.Cedula)
	if q.Status != "" {
		evt = evt.Str("status_filter", q.Status)
	}
	if q.Category == "" {
		evt.Msg("no category provided, returning all consents")
	} else {
		evt.Str("category", q.Category).Msg("filtering consents by category")
	}

	c, err := s.privacyConsent(ctx, pat)
	if err != nil {
		return nil, err
	}
	if q.Category == CategoryPrivacy {
		return c, nil
	}
	return BuildConsentBundle([]*fhir.Consent{c}, s.now()), nil
}

func (s *Service) GetPrivacyConsent(ctx context.Context, cedula string) (*fhir.Consent, error) {
	pat, err := s.patients.GetRecord(ctx, cedula)
	if err != nil {
		return nil, err
	}
	return s.privacyConsent(ctx, pat)
}

func (s *Service) privacyConsent(ctx context.Context, pat *patient.PatientRecord) (*fhir.Consent, error) {
	rec, err := s.repo.GetByIdentifier(ctx, pat.Cedula)
	if err != nil {
		return nil, err
	}
	return BuildConsentResource(rec, pat, s.now()), nil
}

func (s *Service) CreateConsent(ctx context.Context, c *ConsentChange) (*Ack, error) {
	if err := s.prepare(ctx, c); err != nil {
		return nil, err
	}
	ack, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.logWrite(ctx, c, ack)
	return ack, nil
}

func (s *Service) UpdateConsent(ctx context.Context, c *ConsentChange) (*Ack, error) {
	if err := s.prepare(ctx, c); err != nil {
		return nil, err
	}
	ack, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	s.logWrite(ctx, c, ack)
	return ack, nil
}

// logWrite records a successful write with the caller's identity and roles.
func (s *Service) logWrite(ctx context.Context, c *ConsentChange, ack *Ack) {
	evt := s.logger.Info().
		Str("cedula", c.Cedula).
		Str("tipo_envio", c.TipoEnvio).
		Str("status", c.Status)
	if c.Usuario != "" {
		evt = evt.Str("usuario", c.Usuario).Strs("roles", auth.RolesFromContext(ctx))
	}
	evt.Msg(ack.Message)
}

// prepare validates a change and stamps it with the clock and the caller.
func (s *Service) prepare(ctx context.Context, c *ConsentChange) error {
	c.Cedula = strings.TrimSpace(c.Cedula)
	c.Status = strings.TrimSpace(c.Status)
	c.TipoEnvio = strings.TrimSpace(c.TipoEnvio)

	var missing []string
	if c.Cedula == "" {
		missing = append(missing, "identifier")
	}
	if c.Status == "" {
		missing = append(missing, "status")
	}
	if c.TipoEnvio == "" {
		missing = append(missing, "deliveryType")
	}
	if len(missing) > 0 {
		return apperr.Invalid("missing required fields: %s", strings.Join(missing, ", "))
	}

	c.At = s.now()
	if uid := auth.UserIDFromContext(ctx); uid != "" {
		c.Usuario = uid
	}
	return nil
}
