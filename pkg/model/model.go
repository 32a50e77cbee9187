package model

import "time"

// Record is a single dated, person-tagged row from any upstream source
// (surgery schedule, actual surgery, sale incentive, future revenue).
type Record struct {
	Source    string            `json:"source,omitempty"`
	PersonKey string            `json:"personKey"`
	OccursOn  time.Time         `json:"occursOn"`
	HasDate   bool              `json:"-"`
	Amount    float64           `json:"amount"`
	Fields    map[string]string `json:"fields,omitempty"` // Passthrough detail-view columns
}

// KpiTarget compares a person's (or display row's) actual total against a
// prorated monthly target.
type KpiTarget struct {
	MonthlyTarget  int  `json:"monthlyTarget"`
	ProratedTarget int  `json:"proratedTarget"`
	Actual         int  `json:"actual"`
	Diff           int  `json:"diff"`
	OnTarget       bool `json:"onTarget"`
}

// SourceStatus reports how one upstream fetch went during a report build.
type SourceStatus struct {
	Name      string    `json:"name"`
	Records   int       `json:"records"`
	Error     string    `json:"error,omitempty"`
	FetchedAt time.Time `json:"fetchedAt,omitempty"`
}

// Contact is a customer row from the Film_dev sheet, possibly enriched with
// the telephony agent currently talking to them.
type Contact struct {
	ID              string    `json:"id" firestore:"id,omitempty"`
	CustomerName    string    `json:"customerName" firestore:"customerName,omitempty"`
	PhoneNumber     string    `json:"phoneNumber" firestore:"phoneNumber,omitempty"`
	Product         string    `json:"product,omitempty" firestore:"product,omitempty"`
	Remarks         string    `json:"remarks,omitempty" firestore:"remarks,omitempty"`
	Status          string    `json:"status" firestore:"status,omitempty"` // incoming, outgoing, pending, completed
	ContactDate     time.Time `json:"contactDate" firestore:"contactDate,omitempty"`
	NextContactDate string    `json:"nextContactDate,omitempty" firestore:"nextContactDate,omitempty"`
	Company         string    `json:"company,omitempty" firestore:"company,omitempty"`
	Email           string    `json:"email,omitempty" firestore:"email,omitempty"`
	AgentID         string    `json:"agentId,omitempty" firestore:"agentId,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}

// Contact statuses shown on the dashboard.
const (
	ContactIncoming  = "incoming"
	ContactOutgoing  = "outgoing"
	ContactPending   = "pending"
	ContactCompleted = "completed"
)

// QueueAgent mirrors one agent entry of the Yalecom queue-status payload.
type QueueAgent struct {
	AgentID              string `json:"agent_id"`
	AgentName            string `json:"agent_name"`
	AgentQueueStatus     string `json:"agent_queue_status"`
	OutboundCalleeNumber string `json:"agent_outbound_callee_number"`
	QueueCallerNumber    string `json:"agent_queue_caller_number"`
}

// QueueStatus mirrors the Yalecom queue-status payload.
type QueueStatus struct {
	QueueName      string       `json:"queue_name"`
	QueueExtension string       `json:"queue_extension"`
	WaitingCalls   int          `json:"waiting_calls_in_queue"`
	Agents         []QueueAgent `json:"agents"`
}

// CallLog is a single call recorded by an agent.
type CallLog struct {
	ID              string    `json:"id" firestore:"id,omitempty"`
	AgentID         string    `json:"agent_id" firestore:"agentId"`
	CustomerPhone   string    `json:"customer_phone,omitempty" firestore:"customerPhone,omitempty"`
	CustomerName    string    `json:"customer_name,omitempty" firestore:"customerName,omitempty"`
	CallType        string    `json:"call_type" firestore:"callType"`     // outgoing, incoming, robocall
	CallStatus      string    `json:"call_status" firestore:"callStatus"` // answered, missed, busy...
	StartTime       time.Time `json:"start_time" firestore:"startTime"`
	EndTime         time.Time `json:"end_time,omitempty" firestore:"endTime,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty" firestore:"durationSeconds,omitempty"`
	Notes           string    `json:"notes,omitempty" firestore:"notes,omitempty"`
	Date            string    `json:"date,omitempty" firestore:"date"` // YYYY-MM-DD in clinic time, used for queries
}

// KpiTargets is the singleton document holding manager-edited monthly
// targets per display row, overriding the roster defaults.
type KpiTargets struct {
	LastUpdated time.Time      `json:"lastUpdated,omitempty" firestore:"lastUpdated,omitempty"`
	ByRow       map[string]int `json:"byRow,omitempty" firestore:"byRow,omitempty"`
}

// AdAction is one entry of a Graph API insight's actions[] list.
type AdAction struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// AdInsight is one Graph API insights row.
type AdInsight struct {
	CampaignID   string     `json:"campaign_id,omitempty"`
	CampaignName string     `json:"campaign_name,omitempty"`
	AdsetID      string     `json:"adset_id,omitempty"`
	AdsetName    string     `json:"adset_name,omitempty"`
	AdID         string     `json:"ad_id,omitempty"`
	AdName       string     `json:"ad_name,omitempty"`
	Spend        string     `json:"spend,omitempty"`
	Impressions  string     `json:"impressions,omitempty"`
	Clicks       string     `json:"clicks,omitempty"`
	Actions      []AdAction `json:"actions,omitempty"`
	DateStart    string     `json:"date_start,omitempty"`
	DateStop     string     `json:"date_stop,omitempty"`
}

// StockQuote is an OHLC-style row from the SET market data API.
type StockQuote struct {
	Symbol        string  `json:"symbol"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"last"`
	Prior         float64 `json:"prior"`
	Volume        float64 `json:"totalVolume"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percentChange"`
}
