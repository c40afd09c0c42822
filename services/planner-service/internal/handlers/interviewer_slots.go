package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
)

type interviewerSlotRequest struct {
	WeekNum   string        `json:"week_num"`
	DayOfWeek string        `json:"day_of_week"`
	Period    periodPayload `json:"period"`
}

type interviewerSlotResponse struct {
	ID            string        `json:"id"`
	InterviewerID string        `json:"interviewer_id"`
	WeekNum       string        `json:"week_num"`
	DayOfWeek     string        `json:"day_of_week"`
	Period        periodPayload `json:"period"`
}

func interviewerSlotOf(s model.InterviewerSlot) interviewerSlotResponse {
	return interviewerSlotResponse{
		ID:            s.ID.String(),
		InterviewerID: s.InterviewerID.String(),
		WeekNum:       s.Week.String(),
		DayOfWeek:     weekdayName(s.DayOfWeek),
		Period:        periodOf(s.Period),
	}
}

func (h *Handler) interviewerSlotInput(w http.ResponseWriter, r *http.Request) (planner.InterviewerSlotInput, bool) {
	var req interviewerSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "malformed request body")
		return planner.InterviewerSlotInput{}, false
	}
	wk, err := parseWeekParam(req.WeekNum)
	if err != nil {
		h.badRequest(w, "malformed week_num")
		return planner.InterviewerSlotInput{}, false
	}
	day, ok := parseWeekday(req.DayOfWeek)
	if !ok {
		h.badRequest(w, "unknown day_of_week")
		return planner.InterviewerSlotInput{}, false
	}
	p, err := req.Period.parse()
	if err != nil {
		h.badRequest(w, "malformed period")
		return planner.InterviewerSlotInput{}, false
	}
	return planner.InterviewerSlotInput{Week: wk, DayOfWeek: day, Period: p}, true
}

// interviewerTarget resolves the {interviewerID} path segment and enforces
// that interviewers only touch their own slots. Coordinators may target
// anyone.
func (h *Handler) interviewerTarget(w http.ResponseWriter, r *http.Request) (Principal, uuid.UUID, bool) {
	p, ok := h.requirePrincipal(w, r, model.RoleInterviewer, model.RoleCoordinator)
	if !ok {
		return Principal{}, uuid.Nil, false
	}
	id, err := uuid.Parse(r.PathValue("interviewerID"))
	if err != nil {
		h.badRequest(w, "malformed interviewer id")
		return Principal{}, uuid.Nil, false
	}
	if p.Role == model.RoleInterviewer && p.ID != id {
		h.writeJSON(w, http.StatusForbidden, errorBody{Error: errorDetail{
			Code:    "ROLE_FORBIDDEN",
			Message: "interviewers may only manage their own slots",
		}})
		return Principal{}, uuid.Nil, false
	}
	return p, id, true
}

func (h *Handler) createInterviewerSlot(w http.ResponseWriter, r *http.Request) {
	_, interviewerID, ok := h.interviewerTarget(w, r)
	if !ok {
		return
	}
	in, ok := h.interviewerSlotInput(w, r)
	if !ok {
		return
	}
	slot, err := h.planner.CreateInterviewerSlot(r.Context(), interviewerID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, interviewerSlotOf(slot))
}

func (h *Handler) updateInterviewerSlot(w http.ResponseWriter, r *http.Request) {
	p, interviewerID, ok := h.interviewerTarget(w, r)
	if !ok {
		return
	}
	slotID, err := uuid.Parse(r.PathValue("slotID"))
	if err != nil {
		h.badRequest(w, "malformed slot id")
		return
	}
	in, ok := h.interviewerSlotInput(w, r)
	if !ok {
		return
	}
	// Interviewers edit next week's plan only; coordinators may correct any
	// unbooked slot.
	var slot model.InterviewerSlot
	if p.Role == model.RoleCoordinator {
		slot, err = h.planner.UpdateInterviewerSlot(r.Context(), interviewerID, slotID, in)
	} else {
		slot, err = h.planner.UpdateInterviewerSlotForNextWeek(r.Context(), interviewerID, slotID, in)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, interviewerSlotOf(slot))
}
