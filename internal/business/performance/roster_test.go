package performance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRosterResolve(t *testing.T) {
	r := DefaultRoster()
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"จีน", "จีน", true},
		{"105-จีน", "จีน", true},
		{" 107-เจ ", "เจ", true},
		{"999-ว่าน", "ว่าน", true},
		{"test", "Test", true},
		{"ไม่ระบุ", "", false},
		{"", "", false},
		{"105-", "", false},
	}
	for _, tt := range tests {
		got, ok := r.Resolve(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDefaultRosterGroups(t *testing.T) {
	r := DefaultRoster()
	if len(r.Groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(r.Groups))
	}
	pair, ok := r.Group("105-จีน")
	if !ok || pair.Multiplier() != 2 || strings.Join(pair.Members, ",") != "จีน,มุก" {
		t.Fatalf("unexpected pair group %+v", pair)
	}
	if _, ok := r.Group("109-ไม่ระบุ"); ok {
		t.Fatalf("unexpected group 109")
	}
}

func TestParseRosterRejectsUnknownMember(t *testing.T) {
	_, err := ParseRoster([]byte(`
people:
  - row: "107-เจ"
    name: "เจ"
groups:
  - row: "107-เจ"
    label: "107-เจ"
    members: ["เจ", "ฝน"]
`))
	if err == nil || !strings.Contains(err.Error(), "ฝน") {
		t.Fatalf("expected unknown member error, got %v", err)
	}
}

func TestParseRosterRejectsConflictingAlias(t *testing.T) {
	_, err := ParseRoster([]byte(`
people:
  - row: "107-เจ"
    name: "เจ"
    aliases: ["J"]
  - row: "108-ว่าน"
    name: "ว่าน"
    aliases: ["j"]
`))
	if err == nil {
		t.Fatalf("expected alias conflict error")
	}
}

func TestLoadRosterFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	data := []byte(`
people:
  - row: "201-ฝน"
    name: "ฝน"
groups:
  - row: "201-ฝน"
    label: "201-ฝน"
    members: ["ฝน"]
    monthlyTarget: 25
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	r, err := LoadRoster(path)
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}
	if name, ok := r.Resolve("201-ฝน"); !ok || name != "ฝน" {
		t.Fatalf("Resolve = %q, %v", name, ok)
	}
	g, _ := r.Group("201-ฝน")
	if g.Multiplier() != 1 || g.MonthlyTarget != 25 {
		t.Fatalf("unexpected group %+v", g)
	}

	if _, err := LoadRoster(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWithTargetsDoesNotMutateOriginal(t *testing.T) {
	r := DefaultRoster()
	updated := r.WithTargets(map[string]int{"107-เจ": 55, "108-ว่าน": -1})
	g, _ := updated.Group("107-เจ")
	if g.MonthlyTarget != 55 {
		t.Fatalf("override not applied: %+v", g)
	}
	w, _ := updated.Group("108-ว่าน")
	if w.MonthlyTarget != 40 {
		t.Fatalf("negative override applied: %+v", w)
	}
	orig, _ := r.Group("107-เจ")
	if orig.MonthlyTarget != 40 {
		t.Fatalf("original roster mutated: %+v", orig)
	}
}
