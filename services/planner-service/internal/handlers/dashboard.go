package handlers

import (
	"net/http"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
)

type weekResponse struct {
	WeekNum string `json:"week_num"`
}

func (h *Handler) currentWeek(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requirePrincipal(w, r, model.RoleCoordinator, model.RoleInterviewer, model.RoleCandidate); !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, weekResponse{WeekNum: h.planner.Weeks().Current().String()})
}

func (h *Handler) nextWeek(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requirePrincipal(w, r, model.RoleCoordinator, model.RoleInterviewer, model.RoleCandidate); !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, weekResponse{WeekNum: h.planner.Weeks().Next().String()})
}

type dashboardDayResponse struct {
	Date             string                    `json:"date"`
	DayOfWeek        string                    `json:"day_of_week"`
	InterviewerSlots []interviewerSlotResponse `json:"interviewer_slots"`
	CandidateSlots   []candidateSlotResponse   `json:"candidate_slots"`
	Bookings         []bookingResponse         `json:"bookings"`
}

type dashboardResponse struct {
	WeekNum string                 `json:"week_num"`
	Days    []dashboardDayResponse `json:"days"`
}

func dashboardDayOf(d planner.DashboardDay) dashboardDayResponse {
	out := dashboardDayResponse{
		Date:             d.Date.Format("2006-01-02"),
		DayOfWeek:        weekdayName(d.DayOfWeek),
		InterviewerSlots: make([]interviewerSlotResponse, 0, len(d.InterviewerSlots)),
		CandidateSlots:   make([]candidateSlotResponse, 0, len(d.CandidateSlots)),
		Bookings:         make([]bookingResponse, 0, len(d.Bookings)),
	}
	for _, s := range d.InterviewerSlots {
		out.InterviewerSlots = append(out.InterviewerSlots, interviewerSlotOf(s))
	}
	for _, s := range d.CandidateSlots {
		out.CandidateSlots = append(out.CandidateSlots, candidateSlotOf(s))
	}
	for _, b := range d.Bookings {
		out.Bookings = append(out.Bookings, bookingOf(b))
	}
	return out
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requirePrincipal(w, r, model.RoleCoordinator); !ok {
		return
	}
	wk, err := parseWeekParam(r.PathValue("weekNum"))
	if err != nil {
		h.badRequest(w, "malformed week number")
		return
	}
	days, err := h.planner.Dashboard(r.Context(), wk)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := dashboardResponse{WeekNum: wk.String(), Days: make([]dashboardDayResponse, 0, len(days))}
	for _, d := range days {
		resp.Days = append(resp.Days, dashboardDayOf(d))
	}
	h.writeJSON(w, http.StatusOK, resp)
}
