package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
)

type bookingRequest struct {
	InterviewerSlotID string        `json:"interviewer_slot_id"`
	CandidateSlotID   string        `json:"candidate_slot_id"`
	Period            periodPayload `json:"period"`
	Subject           string        `json:"subject"`
	Description       string        `json:"description"`
}

type bookingResponse struct {
	ID                string        `json:"id"`
	InterviewerSlotID string        `json:"interviewer_slot_id"`
	CandidateSlotID   string        `json:"candidate_slot_id"`
	Period            periodPayload `json:"period"`
	Subject           string        `json:"subject"`
	Description       string        `json:"description"`
}

func bookingOf(b model.Booking) bookingResponse {
	return bookingResponse{
		ID:                b.ID.String(),
		InterviewerSlotID: b.InterviewerSlotID.String(),
		CandidateSlotID:   b.CandidateSlotID.String(),
		Period:            periodOf(b.Period),
		Subject:           b.Subject,
		Description:       b.Description,
	}
}

func (h *Handler) bookingInput(w http.ResponseWriter, r *http.Request) (planner.BookingInput, bool) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "malformed request body")
		return planner.BookingInput{}, false
	}
	islotID, err := uuid.Parse(req.InterviewerSlotID)
	if err != nil {
		h.badRequest(w, "malformed interviewer_slot_id")
		return planner.BookingInput{}, false
	}
	cslotID, err := uuid.Parse(req.CandidateSlotID)
	if err != nil {
		h.badRequest(w, "malformed candidate_slot_id")
		return planner.BookingInput{}, false
	}
	p, err := req.Period.parse()
	if err != nil {
		h.badRequest(w, "malformed period")
		return planner.BookingInput{}, false
	}
	return planner.BookingInput{
		InterviewerSlotID: islotID,
		CandidateSlotID:   cslotID,
		Period:            p,
		Subject:           req.Subject,
		Description:       req.Description,
	}, true
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requirePrincipal(w, r, model.RoleCoordinator); !ok {
		return
	}
	in, ok := h.bookingInput(w, r)
	if !ok {
		return
	}
	b, err := h.planner.CreateBooking(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, bookingOf(b))
}

func (h *Handler) updateBooking(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requirePrincipal(w, r, model.RoleCoordinator); !ok {
		return
	}
	bookingID, err := uuid.Parse(r.PathValue("bookingID"))
	if err != nil {
		h.badRequest(w, "malformed booking id")
		return
	}
	in, ok := h.bookingInput(w, r)
	if !ok {
		return
	}
	b, err := h.planner.UpdateBooking(r.Context(), bookingID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bookingOf(b))
}

func (h *Handler) deleteBooking(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requirePrincipal(w, r, model.RoleCoordinator); !ok {
		return
	}
	bookingID, err := uuid.Parse(r.PathValue("bookingID"))
	if err != nil {
		h.badRequest(w, "malformed booking id")
		return
	}
	if err := h.planner.DeleteBooking(r.Context(), bookingID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
