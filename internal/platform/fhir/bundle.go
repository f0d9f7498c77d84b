package fhir

import (
	"fmt"
	"time"
)

const (
	BundleTypeSearchset = "searchset"
	SearchModeMatch     = "match"
)

// Bundle represents a FHIR Bundle resource.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id,omitempty"`
	Type         string        `json:"type"`
	Total        *int          `json:"total,omitempty"`
	Timestamp    *time.Time    `json:"timestamp,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

type BundleEntry struct {
	FullURL  string        `json:"fullUrl,omitempty"`
	Resource interface{}   `json:"resource,omitempty"`
	Search   *BundleSearch `json:"search,omitempty"`
}

type BundleSearch struct {
	Mode string `json:"mode,omitempty"`
}

// Identifiable is implemented by resources that can be addressed as
// <resourceType>/<id> inside a bundle.
type Identifiable interface {
	ResourceRef() (resourceType, id string)
}

func (p *Patient) ResourceRef() (string, string) { return p.ResourceType, p.ID }
func (c *Consent) ResourceRef() (string, string) { return c.ResourceType, c.ID }

// TimestampBundleID derives a bundle id from the build time in unix milliseconds.
func TimestampBundleID(now time.Time) string {
	return fmt.Sprintf("bundle-%d", now.UnixMilli())
}

// NewSearchsetBundle wraps resources in a searchset Bundle. Each entry keeps a
// reference to the original resource value.
func NewSearchsetBundle(resources []Identifiable, now time.Time) *Bundle {
	total := len(resources)
	ts := now.UTC()
	entries := make([]BundleEntry, 0, total)
	for _, r := range resources {
		rt, id := r.ResourceRef()
		entry := BundleEntry{
			Resource: r,
			Search:   &BundleSearch{Mode: SearchModeMatch},
		}
		if rt != "" && id != "" {
			entry.FullURL = FormatReference(rt, id)
		}
		entries = append(entries, entry)
	}
	return &Bundle{
		ResourceType: "Bundle",
		ID:           TimestampBundleID(now),
		Type:         BundleTypeSearchset,
		Total:        &total,
		Timestamp:    &ts,
		Entry:        entries,
	}
}
