package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// feedServer replays scripted response bodies and records the cursor of
// every request.
type feedServer struct {
	responses []string
	requests  int
	starts    []int64
}

func (f *feedServer) handler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Variables struct {
			Start int64 `json:"start"`
		} `json:"variables"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.starts = append(f.starts, req.Variables.Start)

	body := `{"data":{"proposals":[]}}`
	if f.requests < len(f.responses) {
		body = f.responses[f.requests]
	}
	f.requests++
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func feedItem(id string, created, updated int64) string {
	return fmt.Sprintf(`{"id":%q,"title":"t","state":"active","created":%d,"updated":%d,"space":{"id":"test.eth"},"choices":["For","Against"]}`, id, created, updated)
}

func feedPage(items ...string) string {
	return `{"data":{"proposals":[` + strings.Join(items, ",") + `]}}`
}

func newTestClient(t *testing.T, srv *feedServer) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(srv.handler))
	t.Cleanup(ts.Close)
	c := NewClient(ts.URL)
	c.pageSize = 2
	return c, ts
}

func TestFetchSincePaginates(t *testing.T) {
	srv := &feedServer{responses: []string{
		feedPage(feedItem("p1", 1, 1), feedItem("p2", 2, 2)),
		feedPage(feedItem("p3", 3, 3), feedItem("p4", 4, 4)),
		feedPage(feedItem("p5", 5, 5)),
	}}
	c, _ := newTestClient(t, srv)

	got, err := c.FetchSince(context.Background(), AxisCreated, 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d proposals, want 5", len(got))
	}
	if srv.requests != 3 {
		t.Fatalf("made %d requests, want 3", srv.requests)
	}
	wantStarts := []int64{0, 2, 4}
	for i, s := range wantStarts {
		if srv.starts[i] != s {
			t.Fatalf("request %d cursor = %d, want %d", i, srv.starts[i], s)
		}
	}
	if got[0].ID != "p1" || got[4].ID != "p5" {
		t.Fatalf("unexpected order: first %s last %s", got[0].ID, got[4].ID)
	}
}

func TestFetchSinceStopsOnEmptyPage(t *testing.T) {
	srv := &feedServer{responses: []string{
		feedPage(feedItem("p1", 1, 1), feedItem("p2", 2, 2)),
		feedPage(),
	}}
	c, _ := newTestClient(t, srv)

	got, err := c.FetchSince(context.Background(), AxisCreated, 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 || srv.requests != 2 {
		t.Fatalf("got %d proposals over %d requests, want 2 over 2", len(got), srv.requests)
	}
}

func TestFetchSinceReturnsPartialOnError(t *testing.T) {
	srv := &feedServer{responses: []string{
		feedPage(feedItem("p1", 1, 1), feedItem("p2", 2, 2)),
		`{"errors":[{"message":"rate limited"}]}`,
	}}
	c, _ := newTestClient(t, srv)

	got, err := c.FetchSince(context.Background(), AxisCreated, 0)
	if err == nil {
		t.Fatalf("expected error from second page")
	}
	if KindOf(err) != ErrProtocol {
		t.Fatalf("error kind = %q, want %q", KindOf(err), ErrProtocol)
	}
	if len(got) != 2 {
		t.Fatalf("got %d proposals before failure, want 2", len(got))
	}
}

func TestFetchSinceStallGuard(t *testing.T) {
	srv := &feedServer{responses: []string{
		feedPage(feedItem("p1", 3, 3), feedItem("p2", 5, 5)),
		feedPage(feedItem("p3", 5, 5), feedItem("p4", 5, 5)),
	}}
	c, _ := newTestClient(t, srv)

	got, err := c.FetchSince(context.Background(), AxisCreated, 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if srv.requests != 2 {
		t.Fatalf("made %d requests, want 2 (stalled cursor must not loop)", srv.requests)
	}
	if len(got) != 4 {
		t.Fatalf("got %d proposals, want 4", len(got))
	}
}

func TestFetchSinceSkipsItemsWithoutID(t *testing.T) {
	srv := &feedServer{responses: []string{
		feedPage(feedItem("p1", 1, 1), `{"created":2,"updated":2}`),
	}}
	c, _ := newTestClient(t, srv)

	got, err := c.FetchSince(context.Background(), AxisCreated, 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("expected the id-less item to be dropped, got %d items", len(got))
	}
}

func TestFetchSinceUnknownAxis(t *testing.T) {
	c := NewClient("")
	if _, err := c.FetchSince(context.Background(), "start", 0); err == nil {
		t.Fatalf("expected error for unknown axis")
	}
}

func TestFetchSinceTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()
	c := NewClient(ts.URL)

	_, err := c.FetchSince(context.Background(), AxisCreated, 0)
	if KindOf(err) != ErrTransport {
		t.Fatalf("error kind = %q, want %q", KindOf(err), ErrTransport)
	}
}

func TestProposalsQueryAxis(t *testing.T) {
	q := proposalsQuery(AxisUpdated)
	if !strings.Contains(q, "updated_gt: $start") {
		t.Fatalf("updated query missing axis filter:\n%s", q)
	}
	if !strings.Contains(q, `orderBy: "updated"`) {
		t.Fatalf("updated query missing axis ordering:\n%s", q)
	}
}

func TestNumberOrString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`42`, "42"},
		{`12.5`, "12.5"},
		{`"123"`, "123"},
		{`null`, "0"},
		{`[]`, "0"},
		{``, "0"},
	}
	for _, tc := range cases {
		if got := numberOrString(json.RawMessage(tc.in)); got != tc.want {
			t.Fatalf("numberOrString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUnixTime(t *testing.T) {
	if !unixTime(0).IsZero() {
		t.Fatalf("zero timestamp must map to zero time")
	}
	if got := unixTime(1700000000); got.Unix() != 1700000000 {
		t.Fatalf("round trip lost the timestamp: %v", got)
	}
}
