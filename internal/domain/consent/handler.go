package consent

import (
	"context"
	"encoding/json"

	"github.com/hsm/patient-adapter/internal/domain/patient"
	"github.com/hsm/patient-adapter/internal/platform/apperr"
	"github.com/hsm/patient-adapter/internal/platform/rpc"
)

const (
	PatternGetPatientConsent        = "getPatientConsent"
	PatternGetPatientPrivacyConsent = "getPatientPrivacyConsent"
	PatternCreateUserConsent        = "createUserConsent"
	PatternUpdateUserConsent        = "updateUserConsent"

	// Legacy names still sent by older callers.
	PatternCreateUserLOPD = "createUserLOPD"
	PatternUpdateUserLOPD = "updateUserLOPD"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterPatterns(r *rpc.Router) {
	r.Handle(PatternGetPatientConsent, h.GetPatientConsent)
	r.Handle(PatternGetPatientPrivacyConsent, h.GetPatientPrivacyConsent)
	r.Handle(PatternCreateUserConsent, h.CreateUserConsent)
	r.Handle(PatternCreateUserLOPD, h.CreateUserConsent)
	r.Handle(PatternUpdateUserConsent, h.UpdateUserConsent)
	r.Handle(PatternUpdateUserLOPD, h.UpdateUserConsent)
}

func (h *Handler) GetPatientConsent(ctx context.Context, req *rpc.Request) (interface{}, error) {
	id, err := patient.IdentifierFromPayload(req.Data)
	if err != nil {
		return nil, err
	}
	q := Query{Identifier: id}

	var obj map[string]json.RawMessage
	if req.Bind(&obj) == nil {
		q.Category, _ = rpc.Field(obj, "category")
		q.Status, _ = rpc.Field(obj, "status")
	}
	return h.svc.GetPatientConsent(ctx, q)
}

func (h *Handler) GetPatientPrivacyConsent(ctx context.Context, req *rpc.Request) (interface{}, error) {
	id, err := patient.IdentifierFromPayload(req.Data)
	if err != nil {
		return nil, err
	}
	return h.svc.GetPrivacyConsent(ctx, id)
}

func (h *Handler) CreateUserConsent(ctx context.Context, req *rpc.Request) (interface{}, error) {
	c, err := changeFromPayload(req)
	if err != nil {
		return nil, err
	}
	return h.svc.CreateConsent(ctx, c)
}

func (h *Handler) UpdateUserConsent(ctx context.Context, req *rpc.Request) (interface{}, error) {
	c, err := changeFromPayload(req)
	if err != nil {
		return nil, err
	}
	return h.svc.UpdateConsent(ctx, c)
}

// changeFromPayload reads {identifier, status, deliveryType}, falling back to
// the legacy CEDULA, STATUS and TIPO_ENVIO keys.
func changeFromPayload(req *rpc.Request) (*ConsentChange, error) {
	var obj map[string]json.RawMessage
	if err := req.Bind(&obj); err != nil || obj == nil {
		return nil, apperr.Invalid("invalid payload: expected an object with identifier, status and deliveryType")
	}
	c := &ConsentChange{}
	c.Cedula, _ = rpc.Field(obj, "identifier", "CEDULA")
	c.Status, _ = rpc.Field(obj, "status", "STATUS")
	c.TipoEnvio, _ = rpc.Field(obj, "deliveryType", "TIPO_ENVIO")
	return c, nil
}
