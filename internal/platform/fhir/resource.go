package fhir

import (
	"time"
)

// Resource is the base FHIR resource representation.
type Resource struct {
	ResourceType string `json:"resourceType"`
	ID           string `json:"id"`
	Meta         *Meta  `json:"meta,omitempty"`
}

type Meta struct {
	VersionID   string    `json:"versionId,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
	Source      string    `json:"source,omitempty"`
	Profile     []string  `json:"profile,omitempty"`
}

type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

type Reference struct {
	Reference string `json:"reference,omitempty"`
	Type      string `json:"type,omitempty"`
	Display   string `json:"display,omitempty"`
}

type Identifier struct {
	Use      string           `json:"use,omitempty"`
	Type     *CodeableConcept `json:"type,omitempty"`
	System   string           `json:"system,omitempty"`
	Value    string           `json:"value,omitempty"`
	Period   *Period          `json:"period,omitempty"`
	Assigner *Reference       `json:"assigner,omitempty"`
}

// Element carries the extensions of a primitive, serialized under the
// underscore-prefixed sibling key (e.g. "_family").
type Element struct {
	Extension []Extension `json:"extension,omitempty"`
}

type HumanName struct {
	Use       string   `json:"use,omitempty"`
	Text      string   `json:"text,omitempty"`
	Family    string   `json:"family,omitempty"`
	FamilyExt *Element `json:"_family,omitempty"`
	Given     []string `json:"given,omitempty"`
	Prefix    []string `json:"prefix,omitempty"`
	Suffix    []string `json:"suffix,omitempty"`
}

type Address struct {
	Use        string   `json:"use,omitempty"`
	Type       string   `json:"type,omitempty"`
	Text       string   `json:"text,omitempty"`
	Line       []string `json:"line,omitempty"`
	City       string   `json:"city,omitempty"`
	District   string   `json:"district,omitempty"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
}

type ContactPoint struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
	Use    string `json:"use,omitempty"`
	Rank   int    `json:"rank,omitempty"`
}

type Period struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

type Extension struct {
	URL                  string           `json:"url"`
	ValueString          string           `json:"valueString,omitempty"`
	ValueCode            string           `json:"valueCode,omitempty"`
	ValueCodeableConcept *CodeableConcept `json:"valueCodeableConcept,omitempty"`
	Extension            []Extension      `json:"extension,omitempty"`
}

// Patient is the subset of the R5 Patient resource produced by this service.
type Patient struct {
	ResourceType  string           `json:"resourceType"`
	ID            string           `json:"id"`
	Meta          *Meta            `json:"meta,omitempty"`
	Extension     []Extension      `json:"extension,omitempty"`
	Identifier    []Identifier     `json:"identifier,omitempty"`
	Active        bool             `json:"active"`
	Name          []HumanName      `json:"name,omitempty"`
	Telecom       []ContactPoint   `json:"telecom,omitempty"`
	Gender        string           `json:"gender,omitempty"`
	BirthDate     string           `json:"birthDate,omitempty"`
	Address       []Address        `json:"address,omitempty"`
	MaritalStatus *CodeableConcept `json:"maritalStatus,omitempty"`
}

// Consent is the subset of the R5 Consent resource produced by this service.
type Consent struct {
	ResourceType string            `json:"resourceType"`
	ID           string            `json:"id"`
	Meta         *Meta             `json:"meta,omitempty"`
	Identifier   []Identifier      `json:"identifier,omitempty"`
	Status       string            `json:"status"`
	Category     []CodeableConcept `json:"category,omitempty"`
	Subject      *Reference        `json:"subject,omitempty"`
}

// Well-known terminology systems.
const (
	SystemIdentifierType  = "http://terminology.hl7.org/CodeSystem/v2-0203"
	SystemMaritalStatus   = "http://terminology.hl7.org/CodeSystem/v3-MaritalStatus"
	SystemConsentCategory = "http://terminology.hl7.org/CodeSystem/consentcategorycodes"
	SystemISO3166         = "urn:iso:std:iso:3166"
)

func FormatReference(resourceType, id string) string {
	return resourceType + "/" + id
}
