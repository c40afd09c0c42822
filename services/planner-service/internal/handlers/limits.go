package handlers

import (
	"net/http"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
)

type bookingLimitRequest struct {
	WeekNum     string `json:"week_num"`
	MaxBookings int    `json:"max_bookings"`
}

type bookingLimitResponse struct {
	ID              string `json:"id"`
	InterviewerID   string `json:"interviewer_id"`
	WeekNum         string `json:"week_num"`
	MaxBookings     int    `json:"max_bookings"`
	CurrentBookings int    `json:"current_bookings"`
}

func bookingLimitOf(u model.LimitUsage) bookingLimitResponse {
	return bookingLimitResponse{
		ID:              u.Limit.ID.String(),
		InterviewerID:   u.Limit.InterviewerID.String(),
		WeekNum:         u.Limit.Week.String(),
		MaxBookings:     u.Limit.MaxBookings,
		CurrentBookings: u.CurrentBookings,
	}
}

func (h *Handler) setBookingLimit(w http.ResponseWriter, r *http.Request) {
	_, interviewerID, ok := h.interviewerTarget(w, r)
	if !ok {
		return
	}
	var req bookingLimitRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "malformed request body")
		return
	}
	wk, err := parseWeekParam(req.WeekNum)
	if err != nil {
		h.badRequest(w, "malformed week_num")
		return
	}
	limit, err := h.planner.SetNextWeekBookingLimit(r.Context(), interviewerID, wk, req.MaxBookings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bookingLimitResponse{
		ID:            limit.ID.String(),
		InterviewerID: limit.InterviewerID.String(),
		WeekNum:       limit.Week.String(),
		MaxBookings:   limit.MaxBookings,
	})
}

func (h *Handler) listBookingLimits(w http.ResponseWriter, r *http.Request) {
	_, interviewerID, ok := h.interviewerTarget(w, r)
	if !ok {
		return
	}
	usages, err := h.planner.BookingLimits(r.Context(), interviewerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]bookingLimitResponse, 0, len(usages))
	for _, u := range usages {
		out = append(out, bookingLimitOf(u))
	}
	h.writeJSON(w, http.StatusOK, out)
}
