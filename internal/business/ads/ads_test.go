package ads

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/facebook"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

func TestDedupeSumsActions(t *testing.T) {
	rows := []model.AdInsight{
		{CampaignID: "c1", AdID: "a1", AdName: "first", Spend: "100", Actions: []model.AdAction{
			{ActionType: facebook.ActionFirstReply, Value: "3"},
		}},
		{CampaignID: "c1", AdsetID: "s1", Spend: "50"},
		{CampaignID: "c1", AdID: "a1", AdName: "dup", Spend: "999", Actions: []model.AdAction{
			{ActionType: facebook.ActionFirstReply, Value: "2"},
			{ActionType: facebook.ActionMessagingConnected, Value: "7"},
		}},
		{Spend: "1"},
		{Spend: "2"},
	}
	got := Dedupe(rows)

	if len(got) != 4 {
		t.Fatalf("expected 4 rows, got %d: %+v", len(got), got)
	}
	want := []model.AdAction{
		{ActionType: facebook.ActionFirstReply, Value: "5"},
		{ActionType: facebook.ActionMessagingConnected, Value: "7"},
	}
	if diff := cmp.Diff(want, got[0].Actions); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
	if got[0].AdName != "first" || got[0].Spend != "100" {
		t.Errorf("first row should win: %+v", got[0])
	}
	if Key(got[1]) != "s1" {
		t.Errorf("adset row key = %q", Key(got[1]))
	}
	if rows[0].Actions[0].Value != "3" {
		t.Errorf("input actions were mutated")
	}
}

func TestActionValueAndCost(t *testing.T) {
	actions := []model.AdAction{{ActionType: "link_click", Value: "9"}, {ActionType: facebook.ActionFirstReply, Value: "4"}}
	if got := ActionValue(actions, facebook.ActionFirstReply); got != 4 {
		t.Errorf("ActionValue = %d", got)
	}
	if got := ActionValue(actions, facebook.ActionMessagingConnected); got != 0 {
		t.Errorf("missing action = %d", got)
	}
	if CostPer(100, 0) != 0 || CostPer(100, 4) != 25 {
		t.Errorf("unexpected CostPer")
	}
}

func TestBuildReport(t *testing.T) {
	rep := BuildReport(facebook.LevelCampaign, []model.AdInsight{
		{CampaignID: "c1", CampaignName: "Nose", Spend: "120.5", Impressions: "1000", Clicks: "10", Actions: []model.AdAction{
			{ActionType: facebook.ActionFirstReply, Value: "5"},
			{ActionType: facebook.ActionMessagingConnected, Value: "8"},
		}},
		{CampaignID: "c2", CampaignName: "Eyes", Spend: "300"},
	})
	if len(rep.Rows) != 2 || rep.Rows[0].ID != "c2" {
		t.Fatalf("rows not sorted by spend: %+v", rep.Rows)
	}
	if rep.Rows[1].CostPerReply != 24.1 || rep.Rows[1].Name != "Nose" {
		t.Errorf("row = %+v", rep.Rows[1])
	}
	if rep.Totals.Spend != 420.5 || rep.Totals.FirstReplies != 5 || rep.Totals.Impressions != 1000 {
		t.Errorf("totals = %+v", rep.Totals)
	}
	if rep.Totals.CostPerReply != 84.1 {
		t.Errorf("total cost per reply = %v", rep.Totals.CostPerReply)
	}
}

type scriptedReader struct {
	errs  []error
	calls int
}

func (r *scriptedReader) Insights(context.Context, facebook.Query) ([]model.AdInsight, error) {
	i := r.calls
	r.calls++
	if i < len(r.errs) && r.errs[i] != nil {
		return nil, r.errs[i]
	}
	return []model.AdInsight{{CampaignID: "c1", Spend: "10"}}, nil
}

func rateLimited() error {
	return fmt.Errorf("wrapped: %w", &facebook.GraphError{Message: "(#17) User request limit reached", Code: 17})
}

func recordSleeps(waits *[]time.Duration) SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestRetryBacksOffOnRateLimit(t *testing.T) {
	var waits []time.Duration
	reader := &scriptedReader{errs: []error{rateLimited(), rateLimited()}}
	svc := NewService(reader, DefaultBackoff, recordSleeps(&waits), nil)

	rep, err := svc.Report(context.Background(), facebook.Query{DatePreset: "last_7d"})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if reader.calls != 3 || len(rep.Rows) != 1 {
		t.Errorf("calls=%d rows=%d", reader.calls, len(rep.Rows))
	}
	if diff := cmp.Diff([]time.Duration{30 * time.Second, 60 * time.Second}, waits); diff != "" {
		t.Errorf("waits mismatch (-want +got):\n%s", diff)
	}
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	var waits []time.Duration
	reader := &scriptedReader{errs: []error{rateLimited(), rateLimited(), rateLimited(), nil}}
	svc := NewService(reader, DefaultBackoff, recordSleeps(&waits), nil)

	_, err := svc.Report(context.Background(), facebook.Query{DatePreset: "last_7d"})
	if !errors.Is(err, facebook.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if reader.calls != 3 {
		t.Errorf("calls = %d, want 3", reader.calls)
	}
}

func TestRetryCapsWait(t *testing.T) {
	var waits []time.Duration
	b := Backoff{Initial: 30 * time.Second, Max: 120 * time.Second, Attempts: 5}
	_, err := Retry(context.Background(), b, recordSleeps(&waits), func(context.Context) (int, error) {
		return 0, rateLimited()
	})
	if err == nil {
		t.Fatal("expected error")
	}
	want := []time.Duration{30 * time.Second, 60 * time.Second, 120 * time.Second, 120 * time.Second}
	if diff := cmp.Diff(want, waits); diff != "" {
		t.Errorf("waits mismatch (-want +got):\n%s", diff)
	}
}

func TestRetryOtherErrorFailsImmediately(t *testing.T) {
	var waits []time.Duration
	reader := &scriptedReader{errs: []error{errors.New("invalid token")}}
	svc := NewService(reader, DefaultBackoff, recordSleeps(&waits), nil)

	if _, err := svc.Report(context.Background(), facebook.Query{DatePreset: "last_7d"}); err == nil {
		t.Fatal("expected error")
	}
	if reader.calls != 1 || len(waits) != 0 {
		t.Errorf("calls=%d waits=%v", reader.calls, waits)
	}
}

func TestRetryStopsOnCancelledSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Retry(ctx, DefaultBackoff, nil, func(context.Context) (int, error) {
		return 0, rateLimited()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPollWarmsDefaultReport(t *testing.T) {
	reader := &scriptedReader{}
	svc := NewService(reader, DefaultBackoff, nil, nil)
	ctx := context.Background()

	if err := svc.Poll(ctx); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if _, err := svc.Report(ctx, facebook.Query{DatePreset: "today"}); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if reader.calls != 1 {
		t.Errorf("default report should come from the poll, calls = %d", reader.calls)
	}
}
