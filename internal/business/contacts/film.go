// Package contacts serves the customer-contact dashboard: callable contacts
// from the Film_dev sheet overlaid with edits stored in Firestore and matched
// against live inbound calls.
package contacts

import (
	"fmt"
	"strings"
	"time"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/columns"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/util"
)

// CallingStatus marks Film_dev rows that are waiting to be called.
const CallingStatus = "อยู่ระหว่างโทรออก"

// FilmIDPrefix prefixes IDs of contacts that come from the sheet.
const FilmIDPrefix = "film-"

// ParseFilmContacts extracts the callable contacts from Film_dev rows. The
// contact ID is derived from the 1-based sheet row so edits survive reloads.
func ParseFilmContacts(rows [][]string, now time.Time) ([]model.Contact, error) {
	layout, err := columns.Resolve(rows, columns.ContactRules)
	if err != nil {
		return nil, fmt.Errorf("film contacts: %w", err)
	}

	var out []model.Contact
	for i, row := range layout.DataRows(rows) {
		if layout.Cell(row, columns.Status) != CallingStatus {
			continue
		}
		phone := layout.Cell(row, columns.Phone)
		if phone == "" || phone == "-" {
			continue
		}
		name := layout.Cell(row, columns.Name)
		if name == "" {
			name = phone
		}
		out = append(out, model.Contact{
			ID:           fmt.Sprintf("%s%d", FilmIDPrefix, layout.DataOffset+i+1),
			CustomerName: name,
			PhoneNumber:  phone,
			Product:      layout.Cell(row, columns.Product),
			Remarks:      layout.Cell(row, columns.Remarks),
			Status:       model.ContactOutgoing,
			ContactDate:  now,
		})
	}
	return out, nil
}

// Filter keeps contacts whose name, product or remarks contain query
// (case-insensitive) or whose phone contains the query digits.
func Filter(contacts []model.Contact, query string) []model.Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return contacts
	}
	digits := util.DigitsOnly(q)
	if len(digits) < 3 {
		digits = ""
	}

	out := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		switch {
		case strings.Contains(strings.ToLower(c.CustomerName), q),
			strings.Contains(strings.ToLower(c.Product), q),
			strings.Contains(strings.ToLower(c.Remarks), q),
			strings.Contains(c.PhoneNumber, q),
			digits != "" && strings.Contains(util.DigitsOnly(c.PhoneNumber), digits):
			out = append(out, c)
		}
	}
	return out
}

// InboundMatcher finds the agent currently taking a call from phone.
type InboundMatcher interface {
	InboundAgent(phone string) (string, bool)
}

// MatchInbound marks contacts that are on an inbound call: the agent ID is
// set and the status becomes incoming. The input slice is not modified.
func MatchInbound(contacts []model.Contact, m InboundMatcher) []model.Contact {
	out := make([]model.Contact, len(contacts))
	copy(out, contacts)
	if m == nil {
		return out
	}
	for i, c := range out {
		if id, ok := m.InboundAgent(c.PhoneNumber); ok {
			out[i].AgentID = id
			out[i].Status = model.ContactIncoming
		}
	}
	return out
}
