package performance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/refresh"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/pyapi"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

// Table identifiers used by CellDetail and the HTTP layer.
const (
	TableScheduled = "P"
	TableActual    = "L"
	TableRevenue   = "revenue"
)

var (
	// ErrUnknownTable is returned for a table id other than P, L or revenue.
	ErrUnknownTable = errors.New("unknown table")
	// ErrUnknownRow is returned for a row label that is not a display row.
	ErrUnknownRow = errors.New("unknown row")
	// ErrInvalidPeriod is returned for an out-of-range month, year or day.
	ErrInvalidPeriod = errors.New("invalid period")
)

// SheetReader returns the cells of an A1 range.
type SheetReader interface {
	Values(ctx context.Context, a1Range string) ([][]string, error)
}

// DataAPI serves the database-backed sources.
type DataAPI interface {
	SurgeryActual(ctx context.Context, month time.Month, year int) ([]pyapi.Row, error)
	NClinic(ctx context.Context, month time.Month, year int) ([]pyapi.Row, error)
	FutureRevenue(ctx context.Context, month time.Month, year int) ([]pyapi.Row, error)
}

// TargetStore persists manager-edited monthly targets.
type TargetStore interface {
	GetTargets(ctx context.Context) (model.KpiTargets, error)
	SaveTargets(ctx context.Context, targets model.KpiTargets) error
}

// FetchObserver is told about every upstream fetch.
type FetchObserver interface {
	ObserveFetch(source string, elapsed time.Duration, err error)
}

// Snapshot is one consistent read of every source.
type Snapshot struct {
	Scheduled     []model.Record
	Actual        []model.Record
	SaleRevenue   []model.Record
	FutureRevenue []model.Record
	Sources       []model.SourceStatus
	FetchedAt     time.Time
}

// Deps wires a Service.
type Deps struct {
	Sheets        SheetReader
	ScheduleRange string
	Data          DataAPI
	Targets       TargetStore
	Roster        *Roster
	Location      *time.Location
	Logger        *zap.Logger
	Observer      FetchObserver
	// MaxAge is how old a snapshot may be before a report triggers a refetch.
	MaxAge time.Duration
	Now    func() time.Time
}

// Service builds month reports from the latest source snapshot.
type Service struct {
	sheets        SheetReader
	scheduleRange string
	data          DataAPI
	targets       TargetStore
	roster        *Roster
	loc           *time.Location
	logger        *zap.Logger
	obs           FetchObserver
	maxAge        time.Duration
	now           func() time.Time

	refreshMu sync.Mutex
	slot      refresh.Slot[Snapshot]
}

// NewService creates a Service. Missing optional deps get defaults.
func NewService(d Deps) *Service {
	s := &Service{
		sheets:        d.Sheets,
		scheduleRange: d.ScheduleRange,
		data:          d.Data,
		targets:       d.Targets,
		roster:        d.Roster,
		loc:           d.Location,
		logger:        d.Logger,
		obs:           d.Observer,
		maxAge:        d.MaxAge,
		now:           d.Now,
	}
	if s.scheduleRange == "" {
		s.scheduleRange = "Film data!A:Z"
	}
	if s.roster == nil {
		s.roster = DefaultRoster()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxAge <= 0 {
		s.maxAge = 2 * refresh.SurgeryInterval
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Refresh fetches every source concurrently and stores the result as the
// current snapshot. A failing source contributes no records and is reported
// in Snapshot.Sources; only context cancellation fails the refresh.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	snap := Snapshot{Sources: make([]model.SourceStatus, 4)}
	g, gctx := errgroup.WithContext(ctx)

	fetch := func(i int, name string, dst *[]model.Record, fn func(context.Context) ([]model.Record, error)) {
		g.Go(func() error {
			start := time.Now()
			recs, err := fn(gctx)
			elapsed := time.Since(start)
			if s.obs != nil {
				s.obs.ObserveFetch(name, elapsed, err)
			}
			status := model.SourceStatus{Name: name, FetchedAt: s.now()}
			if err != nil {
				s.logger.Warn("source fetch failed",
					zap.String("source", name),
					zap.Duration("elapsed", elapsed),
					zap.Error(err))
				status.Error = err.Error()
				recs = nil
			}
			status.Records = len(recs)
			*dst = recs
			snap.Sources[i] = status
			return nil
		})
	}

	var actual, sales, future apiCall
	if s.data != nil {
		actual, sales, future = s.data.SurgeryActual, s.data.NClinic, s.data.FutureRevenue
	}
	fetch(0, SourceScheduled, &snap.Scheduled, s.fetchScheduled)
	fetch(1, SourceActual, &snap.Actual, s.apiFetcher(SourceActual, actual, SurgeryDate))
	fetch(2, SourceSaleRevenue, &snap.SaleRevenue, s.apiFetcher(SourceSaleRevenue, sales, SaleDate))
	fetch(3, SourceFutureRevenue, &snap.FutureRevenue, s.apiFetcher(SourceFutureRevenue, future, SurgeryDate))

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	snap.FetchedAt = s.now()
	s.slot.Set(snap, snap.FetchedAt)
	return snap, nil
}

// Poll adapts Refresh to a refresh.Poller function.
func (s *Service) Poll(ctx context.Context) error {
	_, err := s.Refresh(ctx)
	return err
}

type apiCall func(ctx context.Context, month time.Month, year int) ([]pyapi.Row, error)

func (s *Service) fetchScheduled(ctx context.Context) ([]model.Record, error) {
	if s.sheets == nil {
		return nil, errors.New("sheets reader not configured")
	}
	rows, err := s.sheets.Values(ctx, s.scheduleRange)
	if err != nil {
		return nil, err
	}
	return RecordsFromSurgerySheet(rows, s.loc)
}

func (s *Service) apiFetcher(source string, call apiCall, dateOf func(pyapi.Row) string) func(context.Context) ([]model.Record, error) {
	return func(ctx context.Context) ([]model.Record, error) {
		if call == nil {
			return nil, errors.New("data api not configured")
		}
		// Month 0 and year 0 ask for every row; the month filter is applied here.
		rows, err := call(ctx, 0, 0)
		if err != nil {
			return nil, err
		}
		return RecordsFromAPIRows(source, rows, dateOf, s.loc), nil
	}
}

// Snapshot returns the stored snapshot, refreshing it first when it is
// missing or older than MaxAge.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	if s.slot.Fresh(s.now(), s.maxAge) {
		snap, _, _ := s.slot.Get()
		return snap, nil
	}
	return s.Refresh(ctx)
}

// CountRow is one display row of a count table.
type CountRow struct {
	Row     string           `json:"row"`
	Label   string           `json:"label"`
	Members []string         `json:"members"`
	Days    []int            `json:"days"` // index 0 is day 1
	Total   int              `json:"total"`
	KPI     *model.KpiTarget `json:"kpi,omitempty"`
}

// CountTableReport is a P or L calendar table.
type CountTableReport struct {
	Table     string     `json:"table"`
	Rows      []CountRow `json:"rows"`
	DayTotals []int      `json:"dayTotals"`
	Total     int        `json:"total"`
}

// RevenueRow is one display row of the revenue table.
type RevenueRow struct {
	Row     string    `json:"row"`
	Label   string    `json:"label"`
	Members []string  `json:"members"`
	Days    []float64 `json:"days"`
	Total   float64   `json:"total"`
}

// RevenueTableReport is the merged revenue calendar table.
type RevenueTableReport struct {
	Table     string       `json:"table"`
	Rows      []RevenueRow `json:"rows"`
	DayTotals []float64    `json:"dayTotals"`
	Total     float64      `json:"total"`
}

// WeekdayInfo describes the proration basis used for the KPI rows.
type WeekdayInfo struct {
	Total   int `json:"total"`
	Elapsed int `json:"elapsed"`
}

// MonthReport is everything the performance calendar needs for one month.
type MonthReport struct {
	Month         time.Month           `json:"month"`
	Year          int                  `json:"year"`
	DaysInMonth   int                  `json:"daysInMonth"`
	Weekdays      WeekdayInfo          `json:"weekdays"`
	Scheduled     CountTableReport     `json:"scheduled"`
	Actual        CountTableReport     `json:"actual"`
	Revenue       RevenueTableReport   `json:"revenue"`
	Unmapped      map[string]int       `json:"unmapped,omitempty"`
	UnmappedTotal int                  `json:"unmappedTotal"`
	Sources       []model.SourceStatus `json:"sources"`
	GeneratedAt   time.Time            `json:"generatedAt"`
}

// BuildMonthReport aggregates the current snapshot for (month, year).
func (s *Service) BuildMonthReport(ctx context.Context, month time.Month, year int) (MonthReport, error) {
	if err := validPeriod(month, year); err != nil {
		return MonthReport{}, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return MonthReport{}, err
	}
	roster := s.rosterWithTargets(ctx)
	return BuildReport(snap, month, year, roster, s.now().In(s.loc)), nil
}

// BuildReport is the pure part of BuildMonthReport.
func BuildReport(snap Snapshot, month time.Month, year int, roster *Roster, today time.Time) MonthReport {
	days := DaysIn(year, month)
	total := CountWeekdays(year, month)
	elapsed := ComputeWeekdaysElapsed(month, year, today)

	scheduled := AggregateByDateAndPerson(snap.Scheduled, month, year, roster)
	actual := AggregateByDateAndPerson(snap.Actual, month, year, roster)
	revenue := MergeNumericMapsByPersonAndDay(
		AggregateRevenueByDateAndPerson(snap.SaleRevenue, month, year, roster),
		AggregateRevenueByDateAndPerson(snap.FutureRevenue, month, year, roster),
	)

	report := MonthReport{
		Month:       month,
		Year:        year,
		DaysInMonth: days,
		Weekdays:    WeekdayInfo{Total: total, Elapsed: elapsed},
		Scheduled:   countTable(TableScheduled, scheduled, roster, days, elapsed, total),
		Actual:      countTable(TableActual, actual, roster, days, elapsed, total),
		Revenue:     revenueTable(revenue, roster, days),
		Sources:     snap.Sources,
		GeneratedAt: today,
	}

	for _, recs := range [][]model.Record{snap.Scheduled, snap.Actual, snap.SaleRevenue, snap.FutureRevenue} {
		st := Tally(recs, month, year, roster)
		for k, n := range st.UnmappedKeys {
			if report.Unmapped == nil {
				report.Unmapped = make(map[string]int)
			}
			report.Unmapped[k] += n
		}
		report.UnmappedTotal += st.Unmapped
	}
	return report
}

func countTable(table string, grid CountGrid, roster *Roster, days, elapsed, total int) CountTableReport {
	out := CountTableReport{Table: table, DayTotals: make([]int, days)}
	for _, g := range roster.Groups {
		row := CountRow{Row: g.Row, Label: g.Label, Members: g.Members, Days: make([]int, days)}
		for d := 1; d <= days; d++ {
			n := grid.Count(g.Members, d)
			row.Days[d-1] = n
			row.Total += n
			out.DayTotals[d-1] += n
		}
		if g.MonthlyTarget > 0 {
			kpi := EvaluateKPI(g, row.Total, elapsed, total)
			row.KPI = &kpi
		}
		out.Total += row.Total
		out.Rows = append(out.Rows, row)
	}
	return out
}

func revenueTable(grid RevenueGrid, roster *Roster, days int) RevenueTableReport {
	out := RevenueTableReport{Table: TableRevenue, DayTotals: make([]float64, days)}
	for _, g := range roster.Groups {
		row := RevenueRow{Row: g.Row, Label: g.Label, Members: g.Members, Days: make([]float64, days)}
		for d := 1; d <= days; d++ {
			v := grid.Sum(g.Members, d)
			row.Days[d-1] = v
			row.Total += v
			out.DayTotals[d-1] += v
		}
		out.Total += row.Total
		out.Rows = append(out.Rows, row)
	}
	return out
}

// CellDetail returns the records behind one clicked cell, sorted by time.
func (s *Service) CellDetail(ctx context.Context, table, row string, month time.Month, year, day int) ([]model.Record, error) {
	if err := validPeriod(month, year); err != nil {
		return nil, err
	}
	if day < 1 || day > DaysIn(year, month) {
		return nil, fmt.Errorf("%w: day %d", ErrInvalidPeriod, day)
	}
	group, ok := s.roster.Group(row)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRow, row)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var sources [][]model.Record
	switch table {
	case TableScheduled:
		sources = [][]model.Record{snap.Scheduled}
	case TableActual:
		sources = [][]model.Record{snap.Actual}
	case TableRevenue:
		sources = [][]model.Record{snap.SaleRevenue, snap.FutureRevenue}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	var out []model.Record
	for _, recs := range sources {
		grid := AggregateByDateAndPerson(recs, month, year, s.roster)
		out = append(out, grid.Records(group.Members, day)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Fields[FieldTime] < out[j].Fields[FieldTime]
	})
	return out, nil
}

// Targets returns the effective monthly target per display row.
func (s *Service) Targets(ctx context.Context) map[string]int {
	r := s.rosterWithTargets(ctx)
	out := make(map[string]int, len(r.Groups))
	for _, g := range r.Groups {
		out[g.Row] = g.MonthlyTarget
	}
	return out
}

// SetTargets stores overrides for known display rows.
func (s *Service) SetTargets(ctx context.Context, byRow map[string]int) error {
	if s.targets == nil {
		return errors.New("target store not configured")
	}
	for row, v := range byRow {
		if _, ok := s.roster.Group(row); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRow, row)
		}
		if v < 0 {
			return fmt.Errorf("target for %s must not be negative", row)
		}
	}
	return s.targets.SaveTargets(ctx, model.KpiTargets{ByRow: byRow, LastUpdated: s.now().UTC()})
}

func (s *Service) rosterWithTargets(ctx context.Context) *Roster {
	if s.targets == nil {
		return s.roster
	}
	t, err := s.targets.GetTargets(ctx)
	if err != nil {
		s.logger.Warn("load kpi targets failed, using roster defaults", zap.Error(err))
		return s.roster
	}
	if len(t.ByRow) == 0 {
		return s.roster
	}
	return s.roster.WithTargets(t.ByRow)
}

func validPeriod(month time.Month, year int) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}
	if year < 2000 || year > 2100 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}
	return nil
}
