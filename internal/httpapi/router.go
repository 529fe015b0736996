package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
	"github.com/bitvavo/bootcamp-bot/internal/metrics"
)

// Service is the admin surface of the bootcamp engine.
type Service interface {
	Sessions(ctx context.Context) ([]domain.Session, error)
	Session(ctx context.Context, id string) (domain.Session, error)
	PutSession(ctx context.Context, id string, s domain.Session) (domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	Schedules(ctx context.Context) ([]domain.Schedule, error)
	Leaderboard(ctx context.Context, year int, month time.Month) (domain.Leaderboard, error)
}

type api struct {
	svc Service
	log *zap.Logger
}

// NewRouter builds the admin routes. Every route is counted in m; requests
// are access-logged through log.
func NewRouter(svc Service, log *zap.Logger, m *metrics.Metrics) http.Handler {
	a := &api{svc: svc, log: log}
	r := mux.NewRouter()

	route := func(path, name string, h http.HandlerFunc, methods ...string) {
		r.Handle(path, m.Instrument(name, h)).Methods(methods...)
	}
	route("/healthz", "healthz", a.health, http.MethodGet)
	route("/sessions", "sessions", a.listSessions, http.MethodGet)
	route("/sessions/{id}", "session", a.getSession, http.MethodGet)
	route("/sessions/{id}", "session", a.putSession, http.MethodPut)
	route("/sessions/{id}", "session", a.deleteSession, http.MethodDelete)
	route("/schedules", "schedules", a.listSchedules, http.MethodGet)
	route("/leaderboard/{year:[0-9]{4}}/{month:[0-9]{1,2}}", "leaderboard", a.leaderboard, http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	access := &zapio.Writer{Log: log.Named("http"), Level: zap.InfoLevel}
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(log.Named("http"))),
	)(handlers.CombinedLoggingHandler(access, r))
}

func (a *api) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
