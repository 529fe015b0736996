package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

func (a *api) listSessions(w http.ResponseWriter, r *http.Request) {
	all, err := a.svc.Sessions(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	if all == nil {
		all = []domain.Session{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (a *api) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := a.svc.Session(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (a *api) putSession(w http.ResponseWriter, r *http.Request) {
	var body domain.Session
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	sess, err := a.svc.PutSession(r.Context(), mux.Vars(r)["id"], body)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (a *api) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.DeleteSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) listSchedules(w http.ResponseWriter, r *http.Request) {
	all, err := a.svc.Schedules(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	if all == nil {
		all = []domain.Schedule{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (a *api) leaderboard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, _ := strconv.Atoi(vars["year"])
	month, _ := strconv.Atoi(vars["month"])
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be 1-12")
		return
	}
	lb, err := a.svc.Leaderboard(r.Context(), year, time.Month(month))
	if err != nil {
		a.fail(w, err)
		return
	}
	if lb.Entries == nil {
		lb.Entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, lb)
}

// fail maps engine errors onto status codes.
func (a *api) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidWeekday):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		a.log.Error("admin request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
