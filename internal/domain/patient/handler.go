package patient

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hsm/patient-adapter/internal/platform/apperr"
	"github.com/hsm/patient-adapter/internal/platform/rpc"
)

const (
	PatternGetPatient  = "getPatient"
	PatternGetPaciente = "getPaciente"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterPatterns(r *rpc.Router) {
	r.Handle(PatternGetPatient, h.GetPatient)
	r.Handle(PatternGetPaciente, h.GetPaciente)
}

func (h *Handler) GetPatient(ctx context.Context, req *rpc.Request) (interface{}, error) {
	id, err := IdentifierFromPayload(req.Data)
	if err != nil {
		return nil, err
	}
	return h.svc.GetPatient(ctx, id)
}

func (h *Handler) GetPaciente(ctx context.Context, req *rpc.Request) (interface{}, error) {
	id, err := IdentifierFromPayload(req.Data)
	if err != nil {
		return nil, err
	}
	return h.svc.GetPaciente(ctx, id)
}

// lookupPayload covers the object shapes accepted for a patient lookup.
type lookupPayload struct {
	Identifier json.RawMessage `json:"identifier"`
	Param      *struct {
		ID json.RawMessage `json:"id"`
	} `json:"param"`
	Query *struct {
		Identifier *struct {
			System string          `json:"system"`
			Value  json.RawMessage `json:"value"`
		} `json:"identifier"`
	} `json:"query"`
}

// IdentifierFromPayload extracts the national ID from a lookup payload: a
// bare string or number, {identifier}, {param:{id}} or
// {query:{identifier:{value}}}.
func IdentifierFromPayload(data json.RawMessage) (string, error) {
	if id, ok := rpc.StringValue(data); ok {
		return requireIdentifier(id)
	}

	var p lookupPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return "", apperr.Invalid("invalid payload: expected an identifier")
	}

	var raw json.RawMessage
	switch {
	case len(p.Identifier) > 0:
		raw = p.Identifier
	case p.Param != nil:
		raw = p.Param.ID
	case p.Query != nil && p.Query.Identifier != nil:
		raw = p.Query.Identifier.Value
	}
	id, _ := rpc.StringValue(raw)
	return requireIdentifier(id)
}

func requireIdentifier(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperr.Invalid("identifier is required")
	}
	return id, nil
}
