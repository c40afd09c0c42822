package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
)

type candidateSlotRequest struct {
	Date   string        `json:"date"`
	Period periodPayload `json:"period"`
}

type candidateSlotResponse struct {
	ID     string        `json:"id"`
	Email  string        `json:"email"`
	Date   string        `json:"date"`
	Period periodPayload `json:"period"`
}

func candidateSlotOf(s model.CandidateSlot) candidateSlotResponse {
	return candidateSlotResponse{
		ID:     s.ID.String(),
		Email:  s.Email,
		Date:   s.Date.Format("2006-01-02"),
		Period: periodOf(s.Period),
	}
}

func (h *Handler) candidateSlotInput(w http.ResponseWriter, r *http.Request) (planner.CandidateSlotInput, bool) {
	var req candidateSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "malformed request body")
		return planner.CandidateSlotInput{}, false
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		h.badRequest(w, "malformed date, want YYYY-MM-DD")
		return planner.CandidateSlotInput{}, false
	}
	p, err := req.Period.parse()
	if err != nil {
		h.badRequest(w, "malformed period")
		return planner.CandidateSlotInput{}, false
	}
	return planner.CandidateSlotInput{Date: date, Period: p}, true
}

func (h *Handler) createCandidateSlot(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requirePrincipal(w, r, model.RoleCandidate)
	if !ok {
		return
	}
	in, ok := h.candidateSlotInput(w, r)
	if !ok {
		return
	}
	slot, err := h.planner.CreateCandidateSlot(r.Context(), p.Email, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, candidateSlotOf(slot))
}

func (h *Handler) updateCandidateSlot(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requirePrincipal(w, r, model.RoleCandidate)
	if !ok {
		return
	}
	slotID, err := uuid.Parse(r.PathValue("slotID"))
	if err != nil {
		h.badRequest(w, "malformed slot id")
		return
	}
	in, ok := h.candidateSlotInput(w, r)
	if !ok {
		return
	}
	slot, err := h.planner.UpdateCandidateSlot(r.Context(), p.Email, slotID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, candidateSlotOf(slot))
}

func (h *Handler) deleteCandidateSlot(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requirePrincipal(w, r, model.RoleCandidate)
	if !ok {
		return
	}
	slotID, err := uuid.Parse(r.PathValue("slotID"))
	if err != nil {
		h.badRequest(w, "malformed slot id")
		return
	}
	if err := h.planner.DeleteCandidateSlot(r.Context(), p.Email, slotID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
