package callcenter

import (
	"fmt"
	"time"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/performance"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/util"
)

// Call types and statuses.
const (
	CallOutgoing = "outgoing"
	CallIncoming = "incoming"
	CallRobocall = "robocall"

	CallAnswered = "answered"
)

// Matrix covers the staffed hours 11:00 to 19:00.
const (
	FirstHour = 11
	LastHour  = 19
)

// DefaultAgents are the extensions shown as matrix columns.
var DefaultAgents = []string{"101", "102", "103", "104", "105", "106", "107", "108"}

// HourSlots returns the slot labels "11-12" ... "18-19".
func HourSlots() []string {
	slots := make([]string, 0, LastHour-FirstHour)
	for h := FirstHour; h < LastHour; h++ {
		slots = append(slots, fmt.Sprintf("%d-%d", h, h+1))
	}
	return slots
}

// SlotIndex returns the 1-based matrix slot of t in loc, or 0 outside the
// staffed hours.
func SlotIndex(t time.Time, loc *time.Location) int {
	h := t.In(loc).Hour()
	if h < FirstHour || h >= LastHour {
		return 0
	}
	return h - FirstHour + 1
}

// CellStats aggregates the calls of one agent in one slot.
type CellStats struct {
	Outgoing        int `json:"outgoing_calls"`
	Incoming        int `json:"incoming_calls"`
	Successful      int `json:"successful_calls"`
	DurationSeconds int `json:"total_duration_seconds"`
}

func (c *CellStats) add(o CellStats) {
	c.Outgoing += o.Outgoing
	c.Incoming += o.Incoming
	c.Successful += o.Successful
	c.DurationSeconds += o.DurationSeconds
}

// MatrixRow is one hour slot across all agents.
type MatrixRow struct {
	HourSlot string               `json:"hour_slot"`
	Agents   map[string]CellStats `json:"agents"`
}

// Matrix is the hourly call matrix of one day.
type Matrix struct {
	Date     string               `json:"date"`
	Rows     []MatrixRow          `json:"rows"`
	Totals   map[string]CellStats `json:"totals"`
	OffHours int                  `json:"offHours"`
	Unknown  int                  `json:"unknownAgents"`
}

// BuildMatrix buckets logs by hour slot and agent. Logs outside staffed
// hours or for agents not in agents are counted but not placed.
func BuildMatrix(date string, logs []model.CallLog, agents []string, loc *time.Location) Matrix {
	if len(agents) == 0 {
		agents = DefaultAgents
	}
	known := make(map[string]bool, len(agents))
	for _, a := range agents {
		known[a] = true
	}

	slots := HourSlots()
	m := Matrix{Date: date, Totals: make(map[string]CellStats, len(agents))}
	cells := make([]map[string]CellStats, len(slots))
	for i := range cells {
		cells[i] = make(map[string]CellStats, len(agents))
	}

	for _, l := range logs {
		idx := SlotIndex(l.StartTime, loc)
		if idx == 0 {
			m.OffHours++
			continue
		}
		if !known[l.AgentID] {
			m.Unknown++
			continue
		}
		cell := cells[idx-1][l.AgentID]
		cell.add(statsOf(l))
		cells[idx-1][l.AgentID] = cell
	}

	for i, slot := range slots {
		row := MatrixRow{HourSlot: slot, Agents: make(map[string]CellStats, len(agents))}
		for _, a := range agents {
			c := cells[i][a]
			row.Agents[a] = c
			t := m.Totals[a]
			t.add(c)
			m.Totals[a] = t
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

func statsOf(l model.CallLog) CellStats {
	var s CellStats
	switch l.CallType {
	case CallIncoming:
		s.Incoming = 1
	default:
		// outgoing and robocall both count as outgoing attempts
		s.Outgoing = 1
	}
	if l.CallStatus == CallAnswered {
		s.Successful = 1
	}
	s.DurationSeconds = l.DurationSeconds
	return s
}

// ReconcileRobocalls attributes robocall logs that carry no agent to the
// agent known for the same customer phone. Returns the attributed logs and
// how many stayed unmatched.
func ReconcileRobocalls(robocalls []model.CallLog, agentByPhone map[string]string) ([]model.CallLog, int) {
	out := make([]model.CallLog, 0, len(robocalls))
	unmatched := 0
	for _, l := range robocalls {
		if l.AgentID == "" {
			if id, ok := agentByPhone[util.NormalizePhone(l.CustomerPhone)]; ok {
				l.AgentID = id
			}
		}
		if l.AgentID == "" {
			unmatched++
			continue
		}
		out = append(out, l)
	}
	return out, unmatched
}

// OutcomeCounts counts successful calls per agent and slot.
func OutcomeCounts(logs []model.CallLog, loc *time.Location) performance.CountTable {
	t := make(performance.CountTable)
	for _, l := range logs {
		if l.CallStatus != CallAnswered || l.AgentID == "" {
			continue
		}
		idx := SlotIndex(l.StartTime, loc)
		if idx == 0 {
			continue
		}
		if t[l.AgentID] == nil {
			t[l.AgentID] = make(map[int]int)
		}
		t[l.AgentID][idx]++
	}
	return t
}
