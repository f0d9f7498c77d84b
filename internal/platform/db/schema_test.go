package db

import "testing"

func TestValidSchemaName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"public", true},
		{"his_santamaria", true},
		{"_staging", true},
		{"Hospital2", true},
		{"", false},
		{"2024", false},
		{"his-prod", false},
		{"public; DROP TABLE pdp", false},
		{`"quoted"`, false},
	}
	for _, tt := range tests {
		if got := ValidSchemaName(tt.name); got != tt.want {
			t.Errorf("ValidSchemaName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSearchPath(t *testing.T) {
	if got := searchPath("public"); got != "public" {
		t.Errorf("expected public, got %s", got)
	}
	if got := searchPath("his"); got != "his, public" {
		t.Errorf("expected 'his, public', got %s", got)
	}
}
