package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bitvavo/bootcamp-bot/internal/bootcamp"
	"github.com/bitvavo/bootcamp-bot/internal/domain"
	"github.com/bitvavo/bootcamp-bot/internal/metrics"
	"github.com/bitvavo/bootcamp-bot/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *bootcamp.Service, store.Repo) {
	t.Helper()
	repo := store.NewMemory()
	m := metrics.New()
	now := time.Date(2025, time.June, 3, 9, 0, 0, 0, time.UTC)
	svc, err := bootcamp.New(bootcamp.Options{
		Sessions:  repo,
		Schedules: repo,
		Metrics:   m,
		Location:  time.UTC,
		Now:       func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	srv := httptest.NewServer(NewRouter(svc, zap.NewNop(), m))
	t.Cleanup(srv.Close)
	return srv, svc, repo
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestSessionsCRUD(t *testing.T) {
	srv, svc, _ := newTestServer(t)
	report, err := svc.Reconcile(context.Background(), svc.Now())
	if err != nil || len(report.Created) != 1 {
		t.Fatalf("reconcile: %+v %v", report, err)
	}
	id := report.Created[0].ID

	resp := do(t, http.MethodGet, srv.URL+"/sessions", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d", resp.StatusCode)
	}
	var list []domain.Session
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].ID != id || list[0].Date.String() != "2025-06-03" {
		t.Fatalf("unexpected list %+v", list)
	}

	body := `{"date":"2025-06-03","time":{"hour":17,"minute":0},"participants":["A","B","A"]}`
	resp = do(t, http.MethodPut, srv.URL+"/sessions/"+id, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put: status %d", resp.StatusCode)
	}
	var put domain.Session
	if err := json.NewDecoder(resp.Body).Decode(&put); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if put.ID != id || len(put.Participants) != 2 {
		t.Fatalf("unexpected put result %+v", put)
	}

	resp = do(t, http.MethodGet, srv.URL+"/sessions/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status %d", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, srv.URL+"/sessions/"+id, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, srv.URL+"/sessions/"+id, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get deleted: status %d", resp.StatusCode)
	}
	resp = do(t, http.MethodDelete, srv.URL+"/sessions/"+id, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete again: status %d", resp.StatusCode)
	}
}

func TestPutSession_BadInput(t *testing.T) {
	srv, _, _ := newTestServer(t)

	cases := map[string]string{
		"not json":     `{`,
		"unknown":      `{"date":"2025-06-03","color":"red"}`,
		"bad date":     `{"date":"2025-13-03"}`,
		"missing date": `{"participants":[]}`,
		"bad time":     `{"date":"2025-06-03","time":{"hour":25,"minute":0}}`,
	}
	for name, body := range cases {
		resp := do(t, http.MethodPut, srv.URL+"/sessions/x", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", name, resp.StatusCode)
		}
	}
}

func TestSchedulesAndLeaderboard(t *testing.T) {
	srv, svc, repo := newTestServer(t)
	ctx := context.Background()
	if err := svc.Subscribe(ctx, time.Tuesday, "u1"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	_ = repo.SaveSession(ctx, domain.Session{ID: "a", Date: domain.NewDate(2025, time.May, 6), Participants: []string{"u1", "u2"}})
	_ = repo.SaveSession(ctx, domain.Session{ID: "b", Date: domain.NewDate(2025, time.May, 7), Participants: []string{"u2"}})

	resp := do(t, http.MethodGet, srv.URL+"/schedules", "")
	var scheds []domain.Schedule
	if err := json.NewDecoder(resp.Body).Decode(&scheds); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(scheds) != 1 || scheds[0].User != "u1" || scheds[0].Weekday != time.Tuesday {
		t.Fatalf("unexpected schedules %+v", scheds)
	}

	resp = do(t, http.MethodGet, srv.URL+"/leaderboard/2025/5", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leaderboard: status %d", resp.StatusCode)
	}
	var lb domain.Leaderboard
	if err := json.NewDecoder(resp.Body).Decode(&lb); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lb.Entries) != 2 || lb.Entries[0].Participant != "u2" || lb.Entries[0].Attendances != 2 {
		t.Fatalf("unexpected leaderboard %+v", lb)
	}

	resp = do(t, http.MethodGet, srv.URL+"/leaderboard/2025/13", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad month: want 400, got %d", resp.StatusCode)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _, _ := newTestServer(t)

	if resp := do(t, http.MethodGet, srv.URL+"/healthz", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: status %d", resp.StatusCode)
	}
	_ = do(t, http.MethodGet, srv.URL+"/sessions/missing", "")

	resp := do(t, http.MethodGet, srv.URL+"/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics: status %d", resp.StatusCode)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{
		`bootcamp_http_requests_total{route="healthz",status="200"} 1`,
		`bootcamp_http_requests_total{route="session",status="404"} 1`,
	} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("metrics missing %q:\n%s", want, buf.String())
		}
	}
}
