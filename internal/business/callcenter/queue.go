package callcenter

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/refresh"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/util"
)

// QueueReader fetches the live queue status.
type QueueReader interface {
	QueueStatus(ctx context.Context, extension string) ([]model.QueueStatus, error)
}

// AgentView is one agent with its display category and current party.
type AgentView struct {
	AgentID       string `json:"agentId"`
	AgentName     string `json:"agentName"`
	Queue         string `json:"queue"`
	Status        string `json:"status"`
	Category      string `json:"category"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	Board         string `json:"board,omitempty"`
}

// QueueSnapshot summarizes the queues at one instant.
type QueueSnapshot struct {
	Agents       []AgentView    `json:"agents"`
	Categories   map[string]int `json:"categories"`
	WaitingCalls int            `json:"waitingCalls"`
	FetchedAt    time.Time      `json:"fetchedAt"`
	Error        string         `json:"error,omitempty"`

	// inbound maps normalized caller numbers to agent IDs.
	inbound map[string]string
}

// Summarize builds a QueueSnapshot from raw queues.
func Summarize(queues []model.QueueStatus, at time.Time) QueueSnapshot {
	snap := QueueSnapshot{
		Categories: make(map[string]int),
		FetchedAt:  at,
		inbound:    make(map[string]string),
	}
	for _, q := range queues {
		snap.WaitingCalls += q.WaitingCalls
		for _, a := range q.Agents {
			view := AgentView{
				AgentID:   a.AgentID,
				AgentName: a.AgentName,
				Queue:     q.QueueName,
				Status:    a.AgentQueueStatus,
				Category:  Category(a.AgentQueueStatus),
			}
			switch a.AgentQueueStatus {
			case StatusDialing:
				view.CustomerPhone = a.OutboundCalleeNumber
			default:
				view.CustomerPhone = firstNonEmpty(a.QueueCallerNumber, a.OutboundCalleeNumber)
			}
			if col, ok := BoardColumn(a.AgentQueueStatus); ok {
				view.Board = col
			}
			if a.AgentQueueStatus == StatusInbound {
				if key := util.NormalizePhone(a.QueueCallerNumber); key != "" {
					snap.inbound[key] = a.AgentID
				}
			}
			snap.Categories[view.Category]++
			snap.Agents = append(snap.Agents, view)
		}
	}
	sort.SliceStable(snap.Agents, func(i, j int) bool { return snap.Agents[i].AgentID < snap.Agents[j].AgentID })
	return snap
}

// InboundAgent returns the agent currently taking an inbound call from phone.
func (s QueueSnapshot) InboundAgent(phone string) (string, bool) {
	key := util.NormalizePhone(phone)
	if key == "" {
		return "", false
	}
	id, ok := s.inbound[key]
	return id, ok
}

// AgentsByPhone returns a copy of the inbound caller to agent map.
func (s QueueSnapshot) AgentsByPhone() map[string]string {
	out := make(map[string]string, len(s.inbound))
	for k, v := range s.inbound {
		out[k] = v
	}
	return out
}

// QueueMonitor keeps the latest queue snapshot, refreshed by a poller.
type QueueMonitor struct {
	reader    QueueReader
	extension string
	logger    *zap.Logger
	now       func() time.Time

	mu   sync.Mutex
	slot refresh.Slot[QueueSnapshot]
}

// NewQueueMonitor creates a monitor for one queue extension.
func NewQueueMonitor(reader QueueReader, extension string, logger *zap.Logger) *QueueMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueMonitor{reader: reader, extension: extension, logger: logger, now: time.Now}
}

// Refresh fetches the queue and stores the snapshot. On failure the snapshot
// is replaced by an empty one carrying the error, so stale agents are never
// shown as live.
func (m *QueueMonitor) Refresh(ctx context.Context) (QueueSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	queues, err := m.reader.QueueStatus(ctx, m.extension)
	now := m.now()
	if err != nil {
		snap := Summarize(nil, now)
		snap.Error = err.Error()
		m.slot.Set(snap, now)
		return snap, err
	}
	snap := Summarize(queues, now)
	m.slot.Set(snap, now)
	return snap, nil
}

// Poll adapts Refresh to a refresh.Poller function.
func (m *QueueMonitor) Poll(ctx context.Context) error {
	_, err := m.Refresh(ctx)
	return err
}

// Current returns the latest snapshot, fetching one if none exists yet or
// the stored one is older than maxAge.
func (m *QueueMonitor) Current(ctx context.Context, maxAge time.Duration) QueueSnapshot {
	if m.slot.Fresh(m.now(), maxAge) {
		snap, _, _ := m.slot.Get()
		return snap
	}
	snap, err := m.Refresh(ctx)
	if err != nil {
		m.logger.Warn("queue status fetch failed", zap.String("extension", m.extension), zap.Error(err))
	}
	return snap
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
