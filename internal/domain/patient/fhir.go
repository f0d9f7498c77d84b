package patient

import (
	"time"

	"github.com/hsm/patient-adapter/internal/platform/fhir"
	"github.com/hsm/patient-adapter/pkg/fhirmodels"
)

const (
	ProfilePatient = "http://hl7.org/fhir/StructureDefinition/Patient"
	SourcePrefix   = "api.hospitalsm.org/Patient/"

	SystemNationalID    = "https://fhir.hospitalsm.org/IdentifierSystem/ni"
	SystemMedicalRecord = "https://fhir.hospitalsm.org/IdentifierSystem/mr"
	AssignerDisplay     = "Hospital Santamaria"

	ExtFathersFamily = "http://hl7.org/fhir/StructureDefinition/humanname-fathers"
	ExtMothersFamily = "http://hl7.org/fhir/StructureDefinition/humanname-mothers"
	ExtBirthPlace    = "http://hl7.org/fhir/StructureDefinition/patient-birthPlace"
	ExtNationality   = "http://hl7.org/fhir/StructureDefinition/patient-nationality"
)

// NationalIDIdentifier is the official NI identifier carried by both Patient
// and Consent resources.
func NationalIDIdentifier(cedula string) fhir.Identifier {
	return fhir.Identifier{
		Use:    fhirmodels.IdentifierUseOfficial,
		System: SystemNationalID,
		Type: &fhir.CodeableConcept{
			Coding: []fhir.Coding{{
				System:  fhir.SystemIdentifierType,
				Code:    fhirmodels.IdentifierTypeNationalID,
				Display: "National unique individual identifier",
			}},
			Text: "Documento de Identidad",
		},
		Value: cedula,
	}
}

func medicalRecordIdentifier(mrn string) fhir.Identifier {
	return fhir.Identifier{
		Use:    fhirmodels.IdentifierUseUsual,
		System: SystemMedicalRecord,
		Type: &fhir.CodeableConcept{
			Coding: []fhir.Coding{{
				System:  fhir.SystemIdentifierType,
				Code:    fhirmodels.IdentifierTypeMedicalRecord,
				Display: "Medical record number",
			}},
			Text: "Historia clínica",
		},
		Assigner: &fhir.Reference{Display: AssignerDisplay},
		Value:    mrn,
	}
}

// GenderFor maps the HIS sex code to an administrative gender. Only "M" maps
// to male; every other value maps to female. recognized is false for values
// other than M and F.
func GenderFor(sexo *string) (gender string, recognized bool) {
	switch deref(sexo) {
	case "M":
		return fhirmodels.GenderMale, true
	case "F":
		return fhirmodels.GenderFemale, true
	default:
		return fhirmodels.GenderFemale, false
	}
}

// BuildPatientResource converts a pacientes row into a FHIR Patient. The
// result depends only on rec, except meta.lastUpdated which is set to now.
func BuildPatientResource(rec *PatientRecord, now time.Time) *fhir.Patient {
	mrn := rec.MRN()

	p := &fhir.Patient{
		ResourceType: "Patient",
		ID:           mrn,
		Meta: &fhir.Meta{
			Profile:     []string{ProfilePatient},
			LastUpdated: now.UTC(),
			Source:      SourcePrefix + mrn,
		},
		Identifier: []fhir.Identifier{
			NationalIDIdentifier(rec.Cedula),
			medicalRecordIdentifier(mrn),
		},
		Active:    true,
		Name:      []fhir.HumanName{buildName(rec)},
		Telecom:   buildTelecom(rec),
		Address:   buildAddresses(rec),
		Extension: buildExtensions(rec),
	}

	p.Gender, _ = GenderFor(rec.Sexo)
	if rec.FechaNacimiento != nil {
		p.BirthDate = rec.FechaNacimiento.Format("2006-01-02")
	}

	marital := MaritalStatusCode(deref(rec.EstadoCivil))
	p.MaritalStatus = &fhir.CodeableConcept{
		Coding: []fhir.Coding{{System: fhir.SystemMaritalStatus, Code: marital.Code, Display: marital.Display}},
		Text:   marital.Text,
	}

	return p
}

func buildName(rec *PatientRecord) fhir.HumanName {
	name := fhir.HumanName{
		Use:    fhirmodels.NameUseOfficial,
		Family: rec.FamilyName(),
		Text:   rec.FullName(),
	}

	var ext []fhir.Extension
	if present(rec.ApellidoPaterno) {
		ext = append(ext, fhir.Extension{URL: ExtFathersFamily, ValueString: deref(rec.ApellidoPaterno)})
	}
	if present(rec.ApellidoMaterno) {
		ext = append(ext, fhir.Extension{URL: ExtMothersFamily, ValueString: deref(rec.ApellidoMaterno)})
	}
	if len(ext) > 0 {
		name.FamilyExt = &fhir.Element{Extension: ext}
	}

	for _, g := range []*string{rec.PrimerNombre, rec.SegundoNombre} {
		if present(g) {
			name.Given = append(name.Given, deref(g))
		}
	}
	return name
}

func buildTelecom(rec *PatientRecord) []fhir.ContactPoint {
	var out []fhir.ContactPoint
	if present(rec.Telefono) {
		out = append(out, fhir.ContactPoint{
			System: fhirmodels.ContactSystemPhone,
			Value:  deref(rec.Telefono),
			Use:    fhirmodels.ContactUseMobile,
		})
	}
	if present(rec.Email) {
		out = append(out, fhir.ContactPoint{
			System: fhirmodels.ContactSystemEmail,
			Value:  deref(rec.Email),
			Use:    fhirmodels.ContactUseHome,
		})
	}
	return out
}

func buildAddresses(rec *PatientRecord) []fhir.Address {
	var out []fhir.Address
	if present(rec.DireccionDomicilio) {
		out = append(out, fhir.Address{
			Use:      fhirmodels.AddressUseHome,
			Line:     []string{deref(rec.DireccionDomicilio)},
			District: deref(rec.DistritoDomicilio),
			City:     deref(rec.CiudadDomicilio),
			State:    deref(rec.ProvinciaDomicilio),
			Text: joinPresent(", ",
				rec.DireccionDomicilio, rec.DistritoDomicilio, rec.CiudadDomicilio, rec.ProvinciaDomicilio),
		})
	}
	if present(rec.DireccionTrabajo) {
		out = append(out, fhir.Address{
			Use:  fhirmodels.AddressUseWork,
			Line: []string{deref(rec.DireccionTrabajo)},
			Text: deref(rec.DireccionTrabajo),
		})
	}
	return out
}

func buildExtensions(rec *PatientRecord) []fhir.Extension {
	var out []fhir.Extension
	if present(rec.LugarNacimiento) {
		out = append(out, fhir.Extension{URL: ExtBirthPlace, ValueString: deref(rec.LugarNacimiento)})
	}

	nat := NationalityCode(deref(rec.Nacionalidad))
	out = append(out, fhir.Extension{
		URL: ExtNationality,
		Extension: []fhir.Extension{{
			URL: "code",
			ValueCodeableConcept: &fhir.CodeableConcept{
				Coding: []fhir.Coding{{System: fhir.SystemISO3166, Code: nat.Code, Display: nat.Display}},
				Text:   nat.Text,
			},
		}},
	})
	return out
}
