package performance

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/util"
)

//go:embed roster_default.yaml
var defaultRosterYAML []byte

// Person is one salesperson: the dashboard row label and the canonical name.
type Person struct {
	Row     string   `yaml:"row" json:"row"`
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// DisplayGroup is a reporting row. Members are canonical names whose
// day buckets are unioned when the row is read.
type DisplayGroup struct {
	Row                 string   `yaml:"row" json:"row"`
	Label               string   `yaml:"label" json:"label"`
	Members             []string `yaml:"members" json:"members"`
	HeadcountMultiplier int      `yaml:"headcountMultiplier" json:"headcountMultiplier"`
	MonthlyTarget       int      `yaml:"monthlyTarget" json:"monthlyTarget"`
}

// Multiplier returns the headcount multiplier, treating unset as 1.
func (g DisplayGroup) Multiplier() int {
	if g.HeadcountMultiplier <= 0 {
		return 1
	}
	return g.HeadcountMultiplier
}

// Roster is the static lookup table from raw person labels to canonical
// names, plus the reporting rows built on top of it.
type Roster struct {
	People []Person       `yaml:"people" json:"people"`
	Groups []DisplayGroup `yaml:"groups" json:"groups"`

	index map[string]string
}

// DefaultRoster returns the built-in roster.
func DefaultRoster() *Roster {
	r, err := ParseRoster(defaultRosterYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded roster: %v", err))
	}
	return r
}

// LoadRoster reads a roster YAML file. An empty path yields the default roster.
func LoadRoster(path string) (*Roster, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultRoster(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	return ParseRoster(data)
}

// ParseRoster decodes and validates roster YAML.
func ParseRoster(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if err := r.build(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Roster) build() error {
	if len(r.People) == 0 {
		return errors.New("roster has no people")
	}
	r.index = make(map[string]string, len(r.People)*3)
	known := make(map[string]bool, len(r.People))
	for _, p := range r.People {
		name := util.CleanCell(p.Name)
		if name == "" {
			return fmt.Errorf("roster person %q has no name", p.Row)
		}
		known[name] = true
		for _, alias := range append([]string{name, p.Row}, p.Aliases...) {
			key := lookupKey(alias)
			if key == "" {
				continue
			}
			if existing, ok := r.index[key]; ok && existing != name {
				return fmt.Errorf("roster alias %q maps to both %q and %q", alias, existing, name)
			}
			r.index[key] = name
		}
	}
	for _, g := range r.Groups {
		if g.Row == "" {
			return errors.New("roster group without row")
		}
		if len(g.Members) == 0 {
			return fmt.Errorf("roster group %q has no members", g.Row)
		}
		for _, m := range g.Members {
			if !known[m] {
				return fmt.Errorf("roster group %q member %q is not a known person", g.Row, m)
			}
		}
	}
	return nil
}

// Resolve maps a raw label ("105-จีน", "จีน", " จีน ") to its canonical
// name. Labels of the form "<id>-<name>" fall back to the name token.
func (r *Roster) Resolve(raw string) (string, bool) {
	key := lookupKey(raw)
	if key == "" {
		return "", false
	}
	if name, ok := r.index[key]; ok {
		return name, true
	}
	if i := strings.Index(key, "-"); i >= 0 && i < len(key)-1 {
		if name, ok := r.index[strings.TrimSpace(key[i+1:])]; ok {
			return name, true
		}
	}
	return "", false
}

// Group returns the display row with the given row label.
func (r *Roster) Group(row string) (DisplayGroup, bool) {
	for _, g := range r.Groups {
		if g.Row == row {
			return g, true
		}
	}
	return DisplayGroup{}, false
}

// WithTargets returns a copy whose group monthly targets are replaced by any
// matching entries in overrides. Negative overrides are ignored.
func (r *Roster) WithTargets(overrides map[string]int) *Roster {
	out := &Roster{
		People: r.People,
		Groups: make([]DisplayGroup, len(r.Groups)),
		index:  r.index,
	}
	copy(out.Groups, r.Groups)
	for i, g := range out.Groups {
		if v, ok := overrides[g.Row]; ok && v >= 0 {
			out.Groups[i].MonthlyTarget = v
		}
	}
	return out
}

func lookupKey(s string) string {
	return strings.ToLower(util.CleanCell(s))
}
