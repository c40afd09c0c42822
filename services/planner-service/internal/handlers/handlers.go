// Package handlers maps the planner core onto the HTTP API. Its only job is
// decoding requests, enforcing caller roles, and translating typed failures
// into status codes; every scheduling rule lives in the planner package.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/apperr"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/period"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/week"
)

type Handler struct {
	planner *planner.Service
	logger  *slog.Logger
}

func New(p *planner.Service, logger *slog.Logger) *Handler {
	return &Handler{planner: p, logger: logger}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/interviewers/{interviewerID}/slots", h.createInterviewerSlot)
	mux.HandleFunc("PUT /api/v1/interviewers/{interviewerID}/slots/{slotID}", h.updateInterviewerSlot)
	mux.HandleFunc("POST /api/v1/interviewers/{interviewerID}/booking-limits", h.setBookingLimit)
	mux.HandleFunc("GET /api/v1/interviewers/{interviewerID}/booking-limits", h.listBookingLimits)
	mux.HandleFunc("POST /api/v1/candidates/slots", h.createCandidateSlot)
	mux.HandleFunc("PUT /api/v1/candidates/slots/{slotID}", h.updateCandidateSlot)
	mux.HandleFunc("DELETE /api/v1/candidates/slots/{slotID}", h.deleteCandidateSlot)
	mux.HandleFunc("POST /api/v1/bookings", h.createBooking)
	mux.HandleFunc("PUT /api/v1/bookings/{bookingID}", h.updateBooking)
	mux.HandleFunc("DELETE /api/v1/bookings/{bookingID}", h.deleteBooking)
	mux.HandleFunc("GET /api/v1/weeks/current", h.currentWeek)
	mux.HandleFunc("GET /api/v1/weeks/next", h.nextWeek)
	mux.HandleFunc("GET /api/v1/dashboard/{weekNum}", h.dashboard)
	mux.HandleFunc("GET /api/v1/users", h.listUsers)
	mux.HandleFunc("POST /api/v1/users/{userID}/roles", h.grantRole)
	mux.HandleFunc("DELETE /api/v1/users/{userID}/roles/{role}", h.revokeRole)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var e *apperr.Error
	if errors.As(err, &e) {
		status := http.StatusInternalServerError
		switch e.Kind {
		case apperr.KindNotFound:
			status = http.StatusNotFound
		case apperr.KindValidation:
			status = http.StatusUnprocessableEntity
		case apperr.KindForbidden:
			status = http.StatusForbidden
		}
		h.writeJSON(w, status, errorBody{Error: errorDetail{Code: string(e.Code), Message: e.Message}})
		return
	}
	h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	h.writeJSON(w, http.StatusInternalServerError,
		errorBody{Error: errorDetail{Code: "INTERNAL", Message: "internal error"}})
}

func (h *Handler) badRequest(w http.ResponseWriter, message string) {
	h.writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{Code: "BAD_REQUEST", Message: message}})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

var weekdayNames = map[string]time.Weekday{
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
	"SUNDAY":    time.Sunday,
}

func parseWeekday(s string) (time.Weekday, bool) {
	d, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(s))]
	return d, ok
}

func weekdayName(d time.Weekday) string {
	return strings.ToUpper(d.String())
}

type periodPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (p periodPayload) parse() (period.Period, error) {
	from, err := period.ParseMinute(p.From)
	if err != nil {
		return period.Period{}, err
	}
	to, err := period.ParseMinute(p.To)
	if err != nil {
		return period.Period{}, err
	}
	return period.Period{From: from, To: to}, nil
}

func periodOf(p period.Period) periodPayload {
	return periodPayload{From: p.From.String(), To: p.To.String()}
}

func parseWeekParam(s string) (week.Week, error) {
	return week.Parse(strings.TrimSpace(s))
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func userOf(u model.User) userResponse {
	return userResponse{ID: u.ID.String(), Email: u.Email, Role: string(u.Role)}
}
