package fhirmodels

// Common FHIR value set constants used across the application.

// AdministrativeGender values.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)

// IdentifierUse values.
const (
	IdentifierUseUsual     = "usual"
	IdentifierUseOfficial  = "official"
	IdentifierUseTemp      = "temp"
	IdentifierUseSecondary = "secondary"
)

// NameUse values.
const (
	NameUseOfficial = "official"
	NameUseUsual    = "usual"
)

// ContactPoint system and use values.
const (
	ContactSystemPhone = "phone"
	ContactSystemEmail = "email"

	ContactUseHome   = "home"
	ContactUseWork   = "work"
	ContactUseMobile = "mobile"
)

// AddressUse values.
const (
	AddressUseHome = "home"
	AddressUseWork = "work"
)

// ConsentState values (R5).
const (
	ConsentStatusDraft          = "draft"
	ConsentStatusActive         = "active"
	ConsentStatusInactive       = "inactive"
	ConsentStatusNotDone        = "not-done"
	ConsentStatusEnteredInError = "entered-in-error"
	ConsentStatusUnknown        = "unknown"
)

// v2-0203 identifier type codes.
const (
	IdentifierTypeNationalID    = "NI"
	IdentifierTypeMedicalRecord = "MR"
)

// Consent category code for a notice of privacy practices.
const (
	ConsentCategoryNPP        = "npp"
	ConsentCategoryNPPDisplay = "Notice of Privacy Practices"
)
