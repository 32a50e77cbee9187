package setmarket

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func TestQuotesFallsBackThroughAuthMethods(t *testing.T) {
	var seen []string
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		auth, key := req.Header.Get("Authorization"), req.Header.Get("x-api-key")
		seen = append(seen, auth+"|"+key)
		if key == "" {
			return &http.Response{StatusCode: http.StatusUnauthorized, Body: io.NopCloser(strings.NewReader("no"))}, nil
		}
		body := `{"data":[{"symbol":"BCH","open":17.1,"high":17.5,"low":17,"last":17.4,"prior":17.2,"totalVolume":1200}]}`
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewBufferString(body))}, nil
	})
	quotes, err := New(rt, "", "k").Quotes(context.Background())
	if err != nil {
		t.Fatalf("Quotes: %v", err)
	}
	if len(seen) != 2 || seen[0] != "Bearer k|" || seen[1] != "|k" {
		t.Errorf("auth attempts = %v", seen)
	}
	if len(quotes) != 1 || quotes[0].Symbol != "BCH" || quotes[0].Close != 17.4 || quotes[0].Prior != 17.2 {
		t.Errorf("quotes = %+v", quotes)
	}
}

func TestQuotesAllMethodsFail(t *testing.T) {
	calls := 0
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{StatusCode: http.StatusForbidden, Body: io.NopCloser(strings.NewReader("denied"))}, nil
	})
	_, err := New(rt, "https://set.test", "k").Quotes(context.Background())
	if err == nil || !strings.Contains(err.Error(), "both") {
		t.Fatalf("expected failure naming the last method, got %v", err)
	}
	if calls != len(AuthMethods) {
		t.Errorf("calls = %d", calls)
	}
}

func TestQuotesNotConfigured(t *testing.T) {
	if _, err := New(nil, "", "").Quotes(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestDecodeQuotesBareArray(t *testing.T) {
	quotes, err := decodeQuotes([]byte(`[{"symbol":"PTT","last":33}]`))
	if err != nil || len(quotes) != 1 || quotes[0].Close != 33 {
		t.Fatalf("quotes=%+v err=%v", quotes, err)
	}
}
