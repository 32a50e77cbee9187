package performance

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/columns"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/pyapi"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/util"
)

// Source names, as reported in SourceStatus and metrics.
const (
	SourceScheduled     = "surgery_schedule"
	SourceActual        = "surgery_actual"
	SourceSaleRevenue   = "n_clinic"
	SourceFutureRevenue = "future_revenue"
)

// Detail field keys carried on Record.Fields.
const (
	FieldCustomer = "customer"
	FieldPhone    = "phone"
	FieldDoctor   = "doctor"
	FieldTime     = "time"
	FieldRawDate  = "date"
	FieldSaleCode = "saleCode"
	FieldItem     = "item"
	FieldRow      = "row"
)

// RecordsFromSurgerySheet converts the "Film data" tab into scheduled-surgery
// records dated by the appointment date. Rows without a person are skipped;
// rows with an unparseable date are kept undated so the aggregator can count them.
func RecordsFromSurgerySheet(rows [][]string, loc *time.Location) ([]model.Record, error) {
	layout, err := columns.Resolve(rows, columns.SurgeryRules)
	if err != nil {
		return nil, fmt.Errorf("surgery sheet: %w", err)
	}

	var out []model.Record
	for i, row := range layout.DataRows(rows) {
		person := layout.Cell(row, columns.Person)
		if util.IsBlankCell(person) {
			continue
		}
		rawDate := layout.Cell(row, columns.Date)
		when, ok := ParseDate(rawDate, loc)
		out = append(out, model.Record{
			Source:    SourceScheduled,
			PersonKey: person,
			OccursOn:  when,
			HasDate:   ok,
			Amount:    util.AmountOrZero(layout.Cell(row, columns.Amount)),
			Fields: map[string]string{
				FieldCustomer: layout.Cell(row, columns.Name),
				FieldPhone:    layout.Cell(row, columns.Phone),
				FieldDoctor:   layout.Cell(row, columns.Doctor),
				FieldTime:     layout.Cell(row, columns.Time),
				FieldRawDate:  rawDate,
				FieldRow:      strconv.Itoa(layout.DataOffset + i + 1),
			},
		})
	}
	return out, nil
}

// RecordsFromAPIRows converts data API rows into records. dateOf picks the
// date column relevant to the source (surgery_date or sale_date).
func RecordsFromAPIRows(source string, rows []pyapi.Row, dateOf func(pyapi.Row) string, loc *time.Location) []model.Record {
	out := make([]model.Record, 0, len(rows))
	for _, r := range rows {
		if util.IsBlankCell(r.ContactStaff) {
			continue
		}
		rawDate := dateOf(r)
		when, ok := ParseDate(rawDate, loc)
		fields := map[string]string{FieldRawDate: rawDate}
		setIf(fields, FieldCustomer, firstNonEmpty(r.CustomerName, r.FullName))
		setIf(fields, FieldPhone, r.Phone)
		setIf(fields, FieldDoctor, r.Doctor)
		setIf(fields, FieldTime, r.SurgeryTime)
		setIf(fields, FieldSaleCode, r.SaleCode)
		setIf(fields, FieldItem, r.ItemName)
		out = append(out, model.Record{
			Source:    source,
			PersonKey: util.CleanCell(r.ContactStaff),
			OccursOn:  when,
			HasDate:   ok,
			Amount:    util.AmountOrZero(string(r.ProposedAmount)),
			Fields:    fields,
		})
	}
	return out
}

// SurgeryDate selects surgery_date.
func SurgeryDate(r pyapi.Row) string { return r.SurgeryDate }

// SaleDate selects sale_date.
func SaleDate(r pyapi.Row) string { return r.SaleDate }

func setIf(m map[string]string, k, v string) {
	if v = util.CleanCell(v); v != "" {
		m[k] = v
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
