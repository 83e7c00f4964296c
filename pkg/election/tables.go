// CLAUDE:SUMMARY Bilingual party/province name tables and the total resolver mapping free-form names to canonical codes.
package election

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TableEntry is one canonical code's display name and input aliases.
type TableEntry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// Tables are the static name tables for parties and provinces. They are
// configuration data: built-in defaults cover the dataset's election,
// and a YAML file can override or extend them. Never mutated at runtime.
type Tables struct {
	Parties map[string]TableEntry `yaml:"parties"`
	Regions map[string]TableEntry `yaml:"regions"`
}

// DefaultTables returns the built-in tables for the 2021 federal
// election: the six parliamentary parties and the thirteen provinces
// and territories, with English and French aliases.
func DefaultTables() *Tables {
	return &Tables{
		Parties: map[string]TableEntry{
			"LPC": {Name: "Liberal Party of Canada", Aliases: []string{
				"Liberal", "Liberals", "Liberal Party", "Liberal Party of Canada",
				"Parti libéral du Canada", "Libéral", "PLC",
			}},
			"CPC": {Name: "Conservative Party of Canada", Aliases: []string{
				"Conservative", "Conservatives", "Conservative Party", "Conservative Party of Canada",
				"Tories", "Parti conservateur du Canada", "Conservateur", "PCC",
			}},
			"NDP": {Name: "New Democratic Party", Aliases: []string{
				"New Democrat", "New Democrats", "New Democratic Party",
				"Nouveau Parti démocratique", "NPD",
			}},
			"BQ": {Name: "Bloc Québécois", Aliases: []string{
				"Bloc", "Bloc Québécois",
			}},
			"GPC": {Name: "Green Party of Canada", Aliases: []string{
				"Green", "Greens", "Green Party", "Green Party of Canada",
				"Parti vert du Canada", "PVC",
			}},
			"PPC": {Name: "People's Party of Canada", Aliases: []string{
				"People's Party", "Peoples Party", "People's Party of Canada",
				"Parti populaire du Canada", "PPC",
			}},
		},
		Regions: map[string]TableEntry{
			"AB": {Name: "Alberta", Aliases: []string{"Alberta"}},
			"BC": {Name: "British Columbia", Aliases: []string{"British Columbia", "Colombie-Britannique", "CB"}},
			"MB": {Name: "Manitoba", Aliases: []string{"Manitoba"}},
			"NB": {Name: "New Brunswick", Aliases: []string{"New Brunswick", "Nouveau-Brunswick"}},
			"NL": {Name: "Newfoundland and Labrador", Aliases: []string{"Newfoundland and Labrador", "Newfoundland", "Terre-Neuve-et-Labrador", "TNL"}},
			"NS": {Name: "Nova Scotia", Aliases: []string{"Nova Scotia", "Nouvelle-Écosse", "NE"}},
			"NT": {Name: "Northwest Territories", Aliases: []string{"Northwest Territories", "Territoires du Nord-Ouest", "TNO"}},
			"NU": {Name: "Nunavut", Aliases: []string{"Nunavut"}},
			"ON": {Name: "Ontario", Aliases: []string{"Ontario"}},
			"PE": {Name: "Prince Edward Island", Aliases: []string{"Prince Edward Island", "Île-du-Prince-Édouard", "PEI", "IPE"}},
			"QC": {Name: "Quebec", Aliases: []string{"Quebec", "Québec"}},
			"SK": {Name: "Saskatchewan", Aliases: []string{"Saskatchewan"}},
			"YT": {Name: "Yukon", Aliases: []string{"Yukon", "Yukon Territory"}},
		},
	}
}

// LoadTables returns the defaults overlaid with entries from a YAML
// file. An empty path returns the defaults unchanged; a code present in
// the file replaces the built-in entry wholesale.
func LoadTables(path string) (*Tables, error) {
	t := DefaultTables()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables %s: %w", path, err)
	}
	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse tables %s: %w", path, err)
	}
	for code, e := range override.Parties {
		t.Parties[strings.ToUpper(code)] = e
	}
	for code, e := range override.Regions {
		t.Regions[strings.ToUpper(code)] = e
	}
	return t, nil
}

// Resolver maps free-form party and province names (English or French,
// any casing, accents or punctuation) to canonical codes. It never
// fails: unresolvable input passes through uppercased, so downstream
// lookups report "not found" against the real keyspace.
type Resolver struct {
	partyAliases  map[string]string
	partyNames    map[string]string
	regionAliases map[string]string
	regionNames   map[string]string
}

// NewResolver builds a Resolver from tables, normalizing alias keys and
// rejecting tables where one alias maps to two different codes.
func NewResolver(t *Tables) (*Resolver, error) {
	r := &Resolver{
		partyAliases:  make(map[string]string),
		partyNames:    make(map[string]string, len(t.Parties)),
		regionAliases: make(map[string]string),
		regionNames:   make(map[string]string, len(t.Regions)),
	}
	if err := buildSide(t.Parties, r.partyAliases, r.partyNames, "party"); err != nil {
		return nil, err
	}
	if err := buildSide(t.Regions, r.regionAliases, r.regionNames, "region"); err != nil {
		return nil, err
	}
	return r, nil
}

func buildSide(entries map[string]TableEntry, aliases, names map[string]string, what string) error {
	for code, e := range entries {
		code = strings.ToUpper(code)
		names[code] = e.Name
		for _, alias := range append([]string{e.Name}, e.Aliases...) {
			key := Normalize(alias)
			if key == "" {
				continue
			}
			if prev, dup := aliases[key]; dup && prev != code {
				return fmt.Errorf("%s alias %q maps to both %s and %s", what, alias, prev, code)
			}
			aliases[key] = code
		}
	}
	return nil
}

// ResolveParty maps input to a canonical party code.
func (r *Resolver) ResolveParty(input string) string {
	return resolve(input, r.partyAliases, r.partyNames)
}

// ResolveRegion maps input to a canonical province code.
func (r *Resolver) ResolveRegion(input string) string {
	return resolve(input, r.regionAliases, r.regionNames)
}

func resolve(input string, aliases, names map[string]string) string {
	up := strings.ToUpper(strings.TrimSpace(input))
	if _, ok := names[up]; ok {
		return up
	}
	if code, ok := aliases[Normalize(input)]; ok {
		return code
	}
	return up
}

// PartyName returns the display name for a party code, or the code
// itself when the table has no entry (fringe parties, independents).
func (r *Resolver) PartyName(code string) string {
	if name, ok := r.partyNames[code]; ok {
		return name
	}
	return code
}

// RegionName returns the display name for a province code, falling
// back to the code.
func (r *Resolver) RegionName(code string) string {
	if name, ok := r.regionNames[code]; ok {
		return name
	}
	return code
}
