package election

import (
	"os"
	"path/filepath"
	"testing"
)

func defaultResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(DefaultTables())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestResolveParty(t *testing.T) {
	r := defaultResolver(t)
	tests := []struct {
		input, want string
	}{
		{"LPC", "LPC"}, // canonical code is a fixed point
		{"lpc", "LPC"},
		{"Liberal", "LPC"},
		{"liberals", "LPC"},
		{"Parti libéral du Canada", "LPC"},
		{"parti liberal du canada", "LPC"},
		{"Tories", "CPC"},
		{"NPD", "NDP"}, // French initialism
		{"Bloc Québécois", "BQ"},
		{"bloc quebecois", "BQ"},
		{"Green Party", "GPC"},
		{"XYZ", "XYZ"}, // unresolvable passes through uppercased
		{"Rhinoceros", "RHINOCEROS"},
	}
	for _, tt := range tests {
		if got := r.ResolveParty(tt.input); got != tt.want {
			t.Errorf("ResolveParty(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolveRegion(t *testing.T) {
	r := defaultResolver(t)
	tests := []struct {
		input, want string
	}{
		{"QC", "QC"},
		{"Quebec", "QC"},
		{"Québec", "QC"},
		{"Colombie-Britannique", "BC"},
		{"newfoundland", "NL"},
		{"PEI", "PE"},
		{"Territoires du Nord-Ouest", "NT"},
		{"ontario", "ON"},
		{"Atlantis", "ATLANTIS"},
	}
	for _, tt := range tests {
		if got := r.ResolveRegion(tt.input); got != tt.want {
			t.Errorf("ResolveRegion(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDisplayNames(t *testing.T) {
	r := defaultResolver(t)
	if got := r.PartyName("LPC"); got != "Liberal Party of Canada" {
		t.Errorf("PartyName(LPC) = %q", got)
	}
	if got := r.PartyName("IND"); got != "IND" {
		t.Errorf("PartyName fallback = %q, want IND", got)
	}
	if got := r.RegionName("NT"); got != "Northwest Territories" {
		t.Errorf("RegionName(NT) = %q", got)
	}
}

func TestNewResolver_RejectsOverlappingAliases(t *testing.T) {
	tables := &Tables{
		Parties: map[string]TableEntry{
			"AAA": {Name: "Party A", Aliases: []string{"the party"}},
			"BBB": {Name: "Party B", Aliases: []string{"The Party"}},
		},
		Regions: map[string]TableEntry{},
	}
	if _, err := NewResolver(tables); err == nil {
		t.Fatal("expected overlap error, got nil")
	}
}

func TestLoadTables_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	os.WriteFile(path, []byte(`parties:
  FD:
    name: Free Dominion
    aliases: [freedom dominion]
`), 0o644)

	tables, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	r, err := NewResolver(tables)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	// Override is merged on top of the defaults.
	if got := r.ResolveParty("Free Dominion"); got != "FD" {
		t.Errorf("ResolveParty(Free Dominion) = %q, want FD", got)
	}
	if got := r.ResolveParty("Liberal"); got != "LPC" {
		t.Errorf("defaults lost after override: ResolveParty(Liberal) = %q", got)
	}
}

func TestLoadTables_MissingFile(t *testing.T) {
	if _, err := LoadTables(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := LoadTables(""); err != nil {
		t.Fatalf("empty path should return defaults: %v", err)
	}
}
