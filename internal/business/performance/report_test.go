package performance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/pyapi"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

type fakeSheet struct {
	rows  [][]string
	err   error
	calls int
}

func (f *fakeSheet) Values(ctx context.Context, a1Range string) ([][]string, error) {
	f.calls++
	return f.rows, f.err
}

type fakeData struct {
	actual, sales, future []pyapi.Row
	salesErr              error
}

func (f *fakeData) SurgeryActual(context.Context, time.Month, int) ([]pyapi.Row, error) {
	return f.actual, nil
}

func (f *fakeData) NClinic(context.Context, time.Month, int) ([]pyapi.Row, error) {
	return f.sales, f.salesErr
}

func (f *fakeData) FutureRevenue(context.Context, time.Month, int) ([]pyapi.Row, error) {
	return f.future, nil
}

type memTargets struct {
	targets model.KpiTargets
	saved   []model.KpiTargets
}

func (m *memTargets) GetTargets(context.Context) (model.KpiTargets, error) { return m.targets, nil }

func (m *memTargets) SaveTargets(_ context.Context, t model.KpiTargets) error {
	m.saved = append(m.saved, t)
	m.targets = t
	return nil
}

func surgerySheet() [][]string {
	return [][]string{
		{"หมอ", "ผู้ติดต่อ", "ชื่อ", "เบอร์โทร", "วันที่ได้นัดผ่าตัด", "เวลาที่นัด", "ยอดนำเสนอ"},
		{"หมอ A", "จีน", "ลูกค้า1", "0891234567", "2025-03-03", "10:00", "50,000"},
		{"หมอ A", "มุก", "ลูกค้า2", "0891234568", "3/3/2025", "09:00", "10000"},
		{"หมอ B", "เจ", "ลูกค้า3", "-", "2025-03-04", "", ""},
		{"หมอ B", "ใครไม่รู้", "x", "", "2025-03-04", "", ""},
		{"", "", "", "", "", "", ""},
	}
}

func newTestService(sheet *fakeSheet, data *fakeData, targets TargetStore, now *time.Time) *Service {
	return NewService(Deps{
		Sheets:   sheet,
		Data:     data,
		Targets:  targets,
		Location: bkk,
		MaxAge:   time.Minute,
		Now:      func() time.Time { return *now },
	})
}

func defaultData() *fakeData {
	return &fakeData{
		actual: []pyapi.Row{
			{ContactStaff: "เจ", SurgeryDate: "2025-03-04"},
			{ContactStaff: "เจ", SurgeryDate: "Tue, 04 Mar 2025 00:00:00 GMT"},
		},
		sales: []pyapi.Row{
			{ContactStaff: "จีน", SaleDate: "2025-03-03", ProposedAmount: "12000"},
		},
		future: []pyapi.Row{
			{ContactStaff: "มุก", SurgeryDate: "2025-03-03", ProposedAmount: "8,000"},
			{ContactStaff: "ว่าน", SurgeryDate: "2025-04-01", ProposedAmount: "5000"},
		},
	}
}

func rowByID[T any](t *testing.T, rows []T, id func(T) string, want string) T {
	t.Helper()
	for _, r := range rows {
		if id(r) == want {
			return r
		}
	}
	t.Fatalf("row %s not found", want)
	var zero T
	return zero
}

func TestBuildMonthReport(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, bkk)
	targets := &memTargets{targets: model.KpiTargets{ByRow: map[string]int{"107-เจ": 21}}}
	svc := newTestService(&fakeSheet{rows: surgerySheet()}, defaultData(), targets, &now)

	report, err := svc.BuildMonthReport(context.Background(), time.March, 2025)
	if err != nil {
		t.Fatalf("BuildMonthReport: %v", err)
	}

	if report.DaysInMonth != 31 || report.Weekdays != (WeekdayInfo{Total: 21, Elapsed: 3}) {
		t.Fatalf("unexpected period info: %d %+v", report.DaysInMonth, report.Weekdays)
	}

	countID := func(r CountRow) string { return r.Row }
	pair := rowByID(t, report.Scheduled.Rows, countID, "105-จีน")
	if pair.Days[2] != 2 || pair.Total != 2 {
		t.Errorf("105 scheduled day 3 = %d total %d, want 2 2", pair.Days[2], pair.Total)
	}
	wantKPI := model.KpiTarget{MonthlyTarget: 80, ProratedTarget: 12, Actual: 2, Diff: -10}
	if pair.KPI == nil || *pair.KPI != wantKPI {
		t.Errorf("105 KPI = %+v, want %+v", pair.KPI, wantKPI)
	}

	jay := rowByID(t, report.Actual.Rows, countID, "107-เจ")
	if jay.Days[3] != 2 {
		t.Errorf("107 actual day 4 = %d, want 2", jay.Days[3])
	}
	wantJay := model.KpiTarget{MonthlyTarget: 21, ProratedTarget: 3, Actual: 2, Diff: -1}
	if jay.KPI == nil || *jay.KPI != wantJay {
		t.Errorf("107 KPI = %+v, want %+v", jay.KPI, wantJay)
	}

	revID := func(r RevenueRow) string { return r.Row }
	rev := rowByID(t, report.Revenue.Rows, revID, "105-จีน")
	if rev.Days[2] != 20000 || report.Revenue.Total != 20000 {
		t.Errorf("revenue day 3 = %v total %v, want 20000", rev.Days[2], report.Revenue.Total)
	}

	if report.Scheduled.Total != 3 || report.Scheduled.DayTotals[3] != 1 {
		t.Errorf("scheduled totals = %d / day4 %d", report.Scheduled.Total, report.Scheduled.DayTotals[3])
	}
	if diff := cmp.Diff(map[string]int{"ใครไม่รู้": 1}, report.Unmapped); diff != "" || report.UnmappedTotal != 1 {
		t.Errorf("unmapped mismatch (-want +got):\n%s total=%d", diff, report.UnmappedTotal)
	}
	if len(report.Sources) != 4 {
		t.Fatalf("expected 4 sources, got %d", len(report.Sources))
	}
	for _, s := range report.Sources {
		if s.Error != "" {
			t.Errorf("source %s unexpectedly failed: %s", s.Name, s.Error)
		}
	}
}

func TestBuildMonthReportDegradesFailedSource(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, bkk)
	data := defaultData()
	data.salesErr = errors.New("db timeout")
	sheet := &fakeSheet{err: errors.New("sheets quota")}
	svc := newTestService(sheet, data, nil, &now)

	report, err := svc.BuildMonthReport(context.Background(), time.March, 2025)
	if err != nil {
		t.Fatalf("BuildMonthReport: %v", err)
	}
	failed := map[string]bool{}
	for _, s := range report.Sources {
		if s.Error != "" {
			failed[s.Name] = true
		}
	}
	if !failed[SourceScheduled] || !failed[SourceSaleRevenue] || len(failed) != 2 {
		t.Fatalf("failed sources = %v", failed)
	}
	if report.Scheduled.Total != 0 {
		t.Errorf("failed sheet should contribute nothing, got %d", report.Scheduled.Total)
	}
	if report.Revenue.Total != 8000 {
		t.Errorf("revenue should fall back to future revenue only, got %v", report.Revenue.Total)
	}
}

func TestSnapshotReusedUntilStale(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, bkk)
	sheet := &fakeSheet{rows: surgerySheet()}
	svc := newTestService(sheet, defaultData(), nil, &now)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.BuildMonthReport(ctx, time.March, 2025); err != nil {
			t.Fatalf("BuildMonthReport: %v", err)
		}
	}
	if sheet.calls != 1 {
		t.Fatalf("expected cached snapshot, sheet called %d times", sheet.calls)
	}

	now = now.Add(2 * time.Minute)
	if _, err := svc.BuildMonthReport(ctx, time.March, 2025); err != nil {
		t.Fatalf("BuildMonthReport: %v", err)
	}
	if sheet.calls != 2 {
		t.Fatalf("expected refetch after max age, sheet called %d times", sheet.calls)
	}
}

func TestBuildMonthReportRejectsBadMonth(t *testing.T) {
	now := time.Now()
	svc := newTestService(&fakeSheet{}, &fakeData{}, nil, &now)
	if _, err := svc.BuildMonthReport(context.Background(), 13, 2025); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestCellDetail(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, bkk)
	svc := newTestService(&fakeSheet{rows: surgerySheet()}, defaultData(), nil, &now)
	ctx := context.Background()

	recs, err := svc.CellDetail(ctx, TableScheduled, "105-จีน", time.March, 2025, 3)
	if err != nil {
		t.Fatalf("CellDetail: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Fields[FieldTime] != "09:00" || recs[0].Fields[FieldCustomer] != "ลูกค้า2" {
		t.Errorf("records not sorted by time: %+v", recs)
	}
	if recs[1].Fields[FieldRow] != "2" {
		t.Errorf("sheet row = %q, want 2", recs[1].Fields[FieldRow])
	}

	rev, err := svc.CellDetail(ctx, TableRevenue, "105-จีน", time.March, 2025, 3)
	if err != nil {
		t.Fatalf("CellDetail revenue: %v", err)
	}
	if len(rev) != 2 || rev[0].Source != SourceSaleRevenue || rev[1].Source != SourceFutureRevenue {
		t.Errorf("revenue detail = %+v", rev)
	}

	if _, err := svc.CellDetail(ctx, "X", "105-จีน", time.March, 2025, 3); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("expected ErrUnknownTable, got %v", err)
	}
	if _, err := svc.CellDetail(ctx, TableScheduled, "999-x", time.March, 2025, 3); !errors.Is(err, ErrUnknownRow) {
		t.Errorf("expected ErrUnknownRow, got %v", err)
	}
	if _, err := svc.CellDetail(ctx, TableScheduled, "105-จีน", time.February, 2025, 29); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestSetTargets(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, bkk)
	store := &memTargets{}
	svc := newTestService(&fakeSheet{}, &fakeData{}, store, &now)
	ctx := context.Background()

	if err := svc.SetTargets(ctx, map[string]int{"108-ว่าน": 50}); err != nil {
		t.Fatalf("SetTargets: %v", err)
	}
	if got := svc.Targets(ctx); got["108-ว่าน"] != 50 || got["107-เจ"] != 40 {
		t.Errorf("Targets = %v", got)
	}
	if err := svc.SetTargets(ctx, map[string]int{"nope": 1}); !errors.Is(err, ErrUnknownRow) {
		t.Errorf("expected ErrUnknownRow, got %v", err)
	}
	if err := svc.SetTargets(ctx, map[string]int{"108-ว่าน": -1}); err == nil {
		t.Errorf("expected error for negative target")
	}
	if len(store.saved) != 1 {
		t.Errorf("expected one save, got %d", len(store.saved))
	}
}
