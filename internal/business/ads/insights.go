// Package ads rolls Facebook ad insights up into the messaging report.
package ads

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/facebook"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/util"
)

// Key identifies an insight row at its finest populated level.
func Key(in model.AdInsight) string {
	switch {
	case in.AdID != "":
		return in.AdID
	case in.AdsetID != "":
		return in.AdsetID
	default:
		return in.CampaignID
	}
}

// Dedupe merges rows sharing a Key. The first row wins for every field
// except actions, whose values are summed per action type. Rows without any
// ID are kept as they are. Order of first appearance is preserved.
func Dedupe(rows []model.AdInsight) []model.AdInsight {
	out := make([]model.AdInsight, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, r := range rows {
		key := Key(r)
		i, seen := index[key]
		if key == "" || !seen {
			r.Actions = append([]model.AdAction(nil), r.Actions...)
			if key != "" {
				index[key] = len(out)
			}
			out = append(out, r)
			continue
		}
		out[i].Actions = mergeActions(out[i].Actions, r.Actions)
	}
	return out
}

func mergeActions(dst, src []model.AdAction) []model.AdAction {
	for _, a := range src {
		found := false
		for j := range dst {
			if dst[j].ActionType == a.ActionType {
				dst[j].Value = strconv.FormatInt(actionInt(dst[j].Value)+actionInt(a.Value), 10)
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, a)
		}
	}
	return dst
}

// ActionValue returns the value of actionType, or 0 when absent.
func ActionValue(actions []model.AdAction, actionType string) int64 {
	for _, a := range actions {
		if a.ActionType == actionType {
			return actionInt(a.Value)
		}
	}
	return 0
}

func actionInt(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return int64(util.AmountOrZero(v))
	}
	return n
}

// Row is one ad object in the messaging report.
type Row struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CampaignName string  `json:"campaignName,omitempty"`
	Spend        float64 `json:"spend"`
	Impressions  int64   `json:"impressions"`
	Clicks       int64   `json:"clicks"`
	FirstReplies int64   `json:"firstReplies"`
	Connections  int64   `json:"messagingConnections"`
	CostPerReply float64 `json:"costPerReply"`
}

// Report is the messaging summary for one query.
type Report struct {
	Level  string `json:"level"`
	Rows   []Row  `json:"rows"`
	Totals Row    `json:"totals"`
}

// CostPer divides spend by count, returning 0 when count is 0.
func CostPer(spend float64, count int64) float64 {
	if count <= 0 {
		return 0
	}
	return spend / float64(count)
}

// BuildReport dedupes the insights and computes the per-row and total
// messaging figures. Rows are sorted by spend, highest first.
func BuildReport(level string, insights []model.AdInsight) Report {
	rep := Report{Level: level, Rows: []Row{}}
	for _, in := range Dedupe(insights) {
		row := Row{
			ID:           Key(in),
			Name:         nameAt(level, in),
			CampaignName: in.CampaignName,
			Spend:        util.AmountOrZero(in.Spend),
			Impressions:  actionInt(in.Impressions),
			Clicks:       actionInt(in.Clicks),
			FirstReplies: ActionValue(in.Actions, facebook.ActionFirstReply),
			Connections:  ActionValue(in.Actions, facebook.ActionMessagingConnected),
		}
		row.CostPerReply = CostPer(row.Spend, row.FirstReplies)
		rep.Rows = append(rep.Rows, row)

		rep.Totals.Spend += row.Spend
		rep.Totals.Impressions += row.Impressions
		rep.Totals.Clicks += row.Clicks
		rep.Totals.FirstReplies += row.FirstReplies
		rep.Totals.Connections += row.Connections
	}
	rep.Totals.Name = "total"
	rep.Totals.CostPerReply = CostPer(rep.Totals.Spend, rep.Totals.FirstReplies)
	sort.SliceStable(rep.Rows, func(i, j int) bool { return rep.Rows[i].Spend > rep.Rows[j].Spend })
	return rep
}

func nameAt(level string, in model.AdInsight) string {
	switch {
	case level == facebook.LevelAd && in.AdName != "":
		return in.AdName
	case level == facebook.LevelAdset && in.AdsetName != "":
		return in.AdsetName
	case in.AdName != "":
		return in.AdName
	case in.AdsetName != "":
		return in.AdsetName
	default:
		return in.CampaignName
	}
}
