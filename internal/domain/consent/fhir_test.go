package consent

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsm/patient-adapter/internal/platform/fhir"
)

func testConsentRecord() *ConsentRecord {
	act := time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC)
	return &ConsentRecord{
		ID:        8,
		Tipo:      RecordTypePatient,
		Cedula:    "0912345678",
		Status:    "0",
		Fecha:     time.Date(2023, 11, 2, 8, 0, 0, 0, time.UTC),
		TipoEnvio: strPtr("EMAIL"),
		FechaAct:  &act,
	}
}

func TestBuildConsentResource(t *testing.T) {
	rec := testConsentRecord()
	c := BuildConsentResource(rec, testPatient(), fixedNow)

	assert.Equal(t, "Consent", c.ResourceType)
	assert.Equal(t, "8", c.ID)
	assert.Equal(t, []string{ProfileConsent}, c.Meta.Profile)
	assert.Equal(t, *rec.FechaAct, c.Meta.LastUpdated)

	require.Len(t, c.Identifier, 1)
	assert.Equal(t, "official", c.Identifier[0].Use)
	assert.Equal(t, "NI", c.Identifier[0].Type.Coding[0].Code)
	assert.Equal(t, "0912345678", c.Identifier[0].Value)

	assert.Equal(t, "active", c.Status, "status is reported as active whatever the stored code")

	require.Len(t, c.Category, 1)
	assert.Equal(t, fhir.SystemConsentCategory, c.Category[0].Coding[0].System)
	assert.Equal(t, "npp", c.Category[0].Coding[0].Code)
	assert.Equal(t, PrivacyCategoryText, c.Category[0].Text)

	require.NotNil(t, c.Subject)
	assert.Equal(t, "Patient/204518", c.Subject.Reference)
	assert.Equal(t, "Patient", c.Subject.Type)
	assert.Equal(t, "María José Pérez Gómez", c.Subject.Display)
}

func TestBuildConsentResource_NoUpdateDateUsesNow(t *testing.T) {
	rec := testConsentRecord()
	rec.FechaAct = nil

	c := BuildConsentResource(rec, testPatient(), fixedNow)
	assert.Equal(t, fixedNow, c.Meta.LastUpdated)
}

func TestBuildConsentResource_SubjectSkipsMissingNames(t *testing.T) {
	pat := testPatient()
	pat.SegundoNombre = nil

	c := BuildConsentResource(testConsentRecord(), pat, fixedNow)
	assert.Equal(t, "María Pérez Gómez", c.Subject.Display)
}

func TestBuildConsentBundle(t *testing.T) {
	c := BuildConsentResource(testConsentRecord(), testPatient(), fixedNow)
	b := BuildConsentBundle([]*fhir.Consent{c}, fixedNow)

	assert.Equal(t, "Bundle", b.ResourceType)
	assert.Equal(t, "bundle-1709294400000", b.ID)
	assert.Equal(t, "searchset", b.Type)
	require.NotNil(t, b.Total)
	assert.Equal(t, 1, *b.Total)
	require.Len(t, b.Entry, 1)
	assert.Equal(t, "Consent/8", b.Entry[0].FullURL)
	assert.Equal(t, "match", b.Entry[0].Search.Mode)
	assert.Same(t, c, b.Entry[0].Resource)

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"resourceType":"Consent"`)
}
