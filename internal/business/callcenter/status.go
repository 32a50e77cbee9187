// Package callcenter turns telephony queue snapshots and call logs into the
// call-center dashboard views.
package callcenter

// Agent queue statuses as reported by Yalecom.
const (
	StatusWaiting  = "Waiting"
	StatusRinging  = "Ringing"
	StatusInCall   = "InCall"
	StatusInbound  = "Inbound"
	StatusOutbound = "Outbound"
	StatusDialing  = "Dialing"
	StatusBusy     = "Busy"
	StatusOffline  = "Offline"
)

// Display categories.
const (
	CategoryIdle    = "idle"
	CategoryRinging = "ringing"
	CategoryTalking = "talking"
	CategoryDialing = "dialing"
	CategoryBusy    = "busy"
	CategoryOffline = "offline"
	CategoryUnknown = "unknown"
)

var categories = map[string]string{
	StatusWaiting:  CategoryIdle,
	StatusRinging:  CategoryRinging,
	StatusInCall:   CategoryTalking,
	StatusInbound:  CategoryTalking,
	StatusOutbound: CategoryTalking,
	StatusDialing:  CategoryDialing,
	StatusBusy:     CategoryBusy,
	StatusOffline:  CategoryOffline,
}

// Category maps a queue status to its display category. Unrecognized
// statuses map to CategoryUnknown.
func Category(status string) string {
	if c, ok := categories[status]; ok {
		return c
	}
	return CategoryUnknown
}

// Board columns of the sales kanban.
const (
	BoardOutgoing = "outgoing"
	BoardSale     = "sale"
)

// BoardColumn places an agent on the sales board. Agents that are not dialing
// or on a call are not shown (ok is false).
func BoardColumn(status string) (column string, ok bool) {
	switch status {
	case StatusDialing:
		return BoardOutgoing, true
	case StatusInCall, StatusBusy, StatusInbound, StatusOutbound:
		return BoardSale, true
	default:
		return "", false
	}
}
