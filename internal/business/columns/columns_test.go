package columns

import (
	"errors"
	"testing"
)

func TestResolveContactColumnsWithLetterRow(t *testing.T) {
	rows := [][]string{
		{"A", "B", "C", "D", "AS"},
		{"ชื่อ", "เบอร์โทร", "ผลิตภัณฑ์ที่สนใจ", "หมายเหตุ", "status_call"},
		{"สมชาย", "089-123-4567", "ตา", "โทรกลับ", "อยู่ระหว่างโทรออก"},
	}

	layout, err := Resolve(rows, ContactRules)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if layout.HeaderRow != 1 || layout.DataOffset != 2 {
		t.Fatalf("header row = %d, offset = %d, want 1, 2", layout.HeaderRow, layout.DataOffset)
	}
	want := map[string]int{Name: 0, Phone: 1, Product: 2, Remarks: 3, Status: 4}
	for field, idx := range want {
		if got := layout.Index[field]; got != idx {
			t.Errorf("%s -> %d, want %d", field, got, idx)
		}
	}

	data := layout.DataRows(rows)
	if len(data) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(data))
	}
	if got := layout.Cell(data[0], Phone); got != "089-123-4567" {
		t.Errorf("phone cell = %q", got)
	}
}

func TestResolveSingleHeaderFuzzy(t *testing.T) {
	rows := [][]string{
		{"Customer Name", "Mobile Phone", "Call Status (latest)", "Note"},
		{"x", "0812345678", "อยู่ระหว่างโทรออก", ""},
	}
	layout, err := Resolve(rows, ContactRules)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if layout.HeaderRow != 0 {
		t.Fatalf("header row = %d, want 0", layout.HeaderRow)
	}
	if layout.Index[Status] != 2 || layout.Index[Phone] != 1 || layout.Index[Name] != 0 || layout.Index[Remarks] != 3 {
		t.Errorf("unexpected layout: %+v", layout.Index)
	}
	if layout.Has(Product) {
		t.Errorf("product should be unresolved")
	}
}

func TestResolveMissingRequired(t *testing.T) {
	rows := [][]string{{"ชื่อ", "หมายเหตุ"}}
	_, err := Resolve(rows, ContactRules)
	if !errors.Is(err, ErrColumnsNotFound) {
		t.Fatalf("expected ErrColumnsNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
	if len(nf.Missing) != 2 || nf.Missing[0] != Status || nf.Missing[1] != Phone {
		t.Errorf("missing = %v", nf.Missing)
	}
	if len(nf.Available) != 2 {
		t.Errorf("available = %v", nf.Available)
	}
}

func TestResolveEmptySheet(t *testing.T) {
	if _, err := Resolve(nil, SurgeryRules); !errors.Is(err, ErrColumnsNotFound) {
		t.Fatalf("expected ErrColumnsNotFound, got %v", err)
	}
}

func TestSurgeryRulesExactOnly(t *testing.T) {
	header := []string{"หมอ", "ผู้ติดต่อ", "ชื่อ", "เบอร์โทร", "วันที่ได้นัดผ่าตัด", "เวลาที่นัด", "ยอดนำเสนอ"}
	layout, err := Resolve([][]string{header}, SurgeryRules)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i, field := range []string{Doctor, Person, Name, Phone, Date, Time, Amount} {
		if layout.Index[field] != i {
			t.Errorf("%s -> %d, want %d", field, layout.Index[field], i)
		}
	}

	header[4] = "วันที่นัด"
	if _, err := Resolve([][]string{header}, SurgeryRules); !errors.Is(err, ErrColumnsNotFound) {
		t.Fatalf("expected ErrColumnsNotFound for renamed date column, got %v", err)
	}
}

func TestCellShortRow(t *testing.T) {
	layout := Layout{Index: map[string]int{Phone: 5}}
	if got := layout.Cell([]string{"a"}, Phone); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
	if got := layout.Cell([]string{"a"}, Name); got != "" {
		t.Errorf("expected empty for unresolved field, got %q", got)
	}
}

func TestDetectHeaderRow(t *testing.T) {
	cases := []struct {
		name string
		rows [][]string
		want int
	}{
		{"letters", [][]string{{"A", "", "AS"}, {"ชื่อ"}}, 1},
		{"acronym header", [][]string{{"ID", "ชื่อ"}, {"1", "x"}}, 0},
		{"letters only row", [][]string{{"A", "B"}}, 0},
		{"blank first row", [][]string{{"", ""}, {"ชื่อ"}}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectHeaderRow(tc.rows); got != tc.want {
				t.Errorf("DetectHeaderRow = %d, want %d", got, tc.want)
			}
		})
	}
}
