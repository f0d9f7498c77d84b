package consent

import (
	"strconv"
	"time"

	"github.com/hsm/patient-adapter/internal/domain/patient"
	"github.com/hsm/patient-adapter/internal/platform/fhir"
	"github.com/hsm/patient-adapter/pkg/fhirmodels"
)

const (
	ProfileConsent      = "http://hl7.org/fhir/Consent"
	PrivacyCategoryText = "Consentimiento de privacidad"
)

// BuildConsentResource converts a pdp row and its patient into a FHIR
// Consent. meta.lastUpdated is the row's last update, or now when it has none.
// The status is always reported as active whatever the stored status code.
func BuildConsentResource(rec *ConsentRecord, pat *patient.PatientRecord, now time.Time) *fhir.Consent {
	lastUpdated := now.UTC()
	if rec.FechaAct != nil {
		lastUpdated = rec.FechaAct.UTC()
	}

	return &fhir.Consent{
		ResourceType: "Consent",
		ID:           strconv.FormatInt(rec.ID, 10),
		Meta: &fhir.Meta{
			Profile:     []string{ProfileConsent},
			LastUpdated: lastUpdated,
		},
		Identifier: []fhir.Identifier{{
			Use: fhirmodels.IdentifierUseOfficial,
			Type: &fhir.CodeableConcept{
				Coding: []fhir.Coding{{
					System:  fhir.SystemIdentifierType,
					Code:    fhirmodels.IdentifierTypeNationalID,
					Display: "National unique individual identifier",
				}},
			},
			Value: rec.Cedula,
		}},
		Status: fhirmodels.ConsentStatusActive,
		Category: []fhir.CodeableConcept{{
			Coding: []fhir.Coding{{
				System:  fhir.SystemConsentCategory,
				Code:    fhirmodels.ConsentCategoryNPP,
				Display: fhirmodels.ConsentCategoryNPPDisplay,
			}},
			Text: PrivacyCategoryText,
		}},
		Subject: &fhir.Reference{
			Reference: fhir.FormatReference("Patient", pat.MRN()),
			Type:      "Patient",
			Display:   pat.FullName(),
		},
	}
}

// BuildConsentBundle wraps consents in a searchset Bundle identified by the
// build time.
func BuildConsentBundle(consents []*fhir.Consent, now time.Time) *fhir.Bundle {
	resources := make([]fhir.Identifiable, 0, len(consents))
	for _, c := range consents {
		resources = append(resources, c)
	}
	return fhir.NewSearchsetBundle(resources, now)
}
