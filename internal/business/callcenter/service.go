package callcenter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/performance"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/util"
)

// ErrInvalidCallLog is returned when a call log misses required fields.
var ErrInvalidCallLog = errors.New("agent_id and start_time are required")

// CallLogStore persists call logs.
type CallLogStore interface {
	Create(ctx context.Context, log model.CallLog) (model.CallLog, error)
	ListByDate(ctx context.Context, date string) ([]model.CallLog, error)
}

// Service records calls and builds the daily views.
type Service struct {
	store  CallLogStore
	queue  *QueueMonitor
	agents []string
	loc    *time.Location
	now    func() time.Time
}

// NewService creates a call center Service. queue may be nil.
func NewService(store CallLogStore, queue *QueueMonitor, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, queue: queue, agents: DefaultAgents, loc: loc, now: time.Now}
}

// RecordCall validates and stores a call log, applying the defaults
// outgoing/answered and deriving the local date and duration.
func (s *Service) RecordCall(ctx context.Context, l model.CallLog) (model.CallLog, error) {
	l.AgentID = strings.TrimSpace(l.AgentID)
	if l.AgentID == "" || l.StartTime.IsZero() {
		return model.CallLog{}, ErrInvalidCallLog
	}
	if l.CallType == "" {
		l.CallType = CallOutgoing
	}
	if l.CallStatus == "" {
		l.CallStatus = CallAnswered
	}
	if l.DurationSeconds == 0 && !l.EndTime.IsZero() && l.EndTime.After(l.StartTime) {
		l.DurationSeconds = int(l.EndTime.Sub(l.StartTime).Seconds())
	}
	if l.CustomerPhone != "" && util.DigitsOnly(l.CustomerPhone) == "" {
		return model.CallLog{}, fmt.Errorf("invalid customer_phone %q", l.CustomerPhone)
	}
	l.Date = l.StartTime.In(s.loc).Format("2006-01-02")
	return s.store.Create(ctx, l)
}

// Matrix builds the hourly matrix for date (YYYY-MM-DD, clinic time). Robocall
// logs without an agent are attributed through the live inbound map.
func (s *Service) Matrix(ctx context.Context, date string) (Matrix, error) {
	if date == "" {
		date = s.now().In(s.loc).Format("2006-01-02")
	}
	if _, err := time.ParseInLocation("2006-01-02", date, s.loc); err != nil {
		return Matrix{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	logs, err := s.store.ListByDate(ctx, date)
	if err != nil {
		return Matrix{}, err
	}
	agentLogs, robocalls := splitRobocalls(logs)
	attributed, _ := ReconcileRobocalls(robocalls, s.agentsByPhone(ctx, agentLogs))
	return BuildMatrix(date, append(agentLogs, attributed...), s.agents, s.loc), nil
}

// Outcomes returns successful calls per agent and slot, agent logs merged
// with attributed robocalls.
func (s *Service) Outcomes(ctx context.Context, date string) (performance.CountTable, int, error) {
	logs, err := s.store.ListByDate(ctx, date)
	if err != nil {
		return nil, 0, err
	}
	agentLogs, robocalls := splitRobocalls(logs)
	attributed, unmatched := ReconcileRobocalls(robocalls, s.agentsByPhone(ctx, agentLogs))
	merged := performance.MergeCounts(OutcomeCounts(agentLogs, s.loc), OutcomeCounts(attributed, s.loc))
	return merged, unmatched, nil
}

// Queue returns the current queue snapshot.
func (s *Service) Queue(ctx context.Context) (QueueSnapshot, error) {
	if s.queue == nil {
		return QueueSnapshot{}, errors.New("queue monitor not configured")
	}
	return s.queue.Current(ctx, 3*time.Second), nil
}

// agentsByPhone combines earlier agent calls to the same customer with the
// live inbound map; the live map wins.
func (s *Service) agentsByPhone(ctx context.Context, agentLogs []model.CallLog) map[string]string {
	out := make(map[string]string)
	for _, l := range agentLogs {
		if key := util.NormalizePhone(l.CustomerPhone); key != "" && l.AgentID != "" {
			out[key] = l.AgentID
		}
	}
	if s.queue != nil {
		for k, v := range s.queue.Current(ctx, 3*time.Second).AgentsByPhone() {
			out[k] = v
		}
	}
	return out
}

func splitRobocalls(logs []model.CallLog) (agentLogs, robocalls []model.CallLog) {
	for _, l := range logs {
		if l.CallType == CallRobocall {
			robocalls = append(robocalls, l)
			continue
		}
		agentLogs = append(agentLogs, l)
	}
	return agentLogs, robocalls
}
