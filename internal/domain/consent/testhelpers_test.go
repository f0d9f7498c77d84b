package consent

import (
	"context"
	"time"

	"github.com/hsm/patient-adapter/internal/domain/patient"
	"github.com/hsm/patient-adapter/internal/platform/apperr"
)

func strPtr(s string) *string { return &s }

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testPatient() *patient.PatientRecord {
	return &patient.PatientRecord{
		Cedula:          "0912345678",
		NumeroHC:        204518,
		PrimerNombre:    strPtr("María"),
		SegundoNombre:   strPtr("José"),
		ApellidoPaterno: strPtr("Pérez"),
		ApellidoMaterno: strPtr("Gómez"),
	}
}

// -- Mock Patient Lookup --

type mockPatients struct {
	records map[string]*patient.PatientRecord
}

func newMockPatients(recs ...*patient.PatientRecord) *mockPatients {
	m := &mockPatients{records: make(map[string]*patient.PatientRecord)}
	for _, r := range recs {
		m.records[r.Cedula] = r
	}
	return m
}

func (m *mockPatients) GetRecord(_ context.Context, cedula string) (*patient.PatientRecord, error) {
	if cedula == "" {
		return nil, apperr.Invalid("identifier is required")
	}
	r, ok := m.records[cedula]
	if !ok {
		return nil, apperr.NotFound("No records found for ID: %s", cedula)
	}
	return r, nil
}

// -- Mock Consent Repository --

type pairKey struct{ cedula, tipoEnvio string }

type mockRepo struct {
	rows   map[pairKey]*ConsentRecord
	nextID int64
	last   *ConsentChange
}

func newMockRepo() *mockRepo {
	return &mockRepo{rows: make(map[pairKey]*ConsentRecord), nextID: 1}
}

func (m *mockRepo) GetByIdentifier(_ context.Context, cedula string) (*ConsentRecord, error) {
	var latest *ConsentRecord
	for k, r := range m.rows {
		if k.cedula != cedula {
			continue
		}
		if latest == nil || updatedAt(r).After(updatedAt(latest)) ||
			(updatedAt(r).Equal(updatedAt(latest)) && r.ID > latest.ID) {
			latest = r
		}
	}
	if latest == nil {
		return nil, apperr.NotFound("No records found for ID: %s", cedula)
	}
	return latest, nil
}

func updatedAt(r *ConsentRecord) time.Time {
	if r.FechaAct != nil {
		return *r.FechaAct
	}
	return r.Fecha
}

func (m *mockRepo) Create(_ context.Context, c *ConsentChange) (*Ack, error) {
	m.last = c
	k := pairKey{c.Cedula, c.TipoEnvio}
	if _, ok := m.rows[k]; ok {
		return nil, apperr.Conflict("Record already exists for ID: %s", c.Cedula)
	}
	id := m.nextID
	m.nextID++
	at := c.At
	m.rows[k] = &ConsentRecord{
		ID: id, Tipo: RecordTypePatient, Cedula: c.Cedula, Status: c.Status,
		Fecha: c.At, FechaAct: &at, TipoEnvio: strPtr(c.TipoEnvio),
	}
	return createdAck(id), nil
}

func (m *mockRepo) Update(_ context.Context, c *ConsentChange) (*Ack, error) {
	m.last = c
	r, ok := m.rows[pairKey{c.Cedula, c.TipoEnvio}]
	if !ok {
		return nil, apperr.NotFound("No records found for ID: %s", c.Cedula)
	}
	at := c.At
	r.Status = c.Status
	r.FechaAct = &at
	return updatedAck(c.Cedula), nil
}
