package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/planwerk/interviewplanner/libs/auth"
	"github.com/planwerk/interviewplanner/libs/httpx"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/memory"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/week"
)

const testSecret = "test-secret"

// Thursday of 2022-W49; the bookable week is 2022-W50.
var testNow = time.Date(2022, 12, 8, 10, 0, 0, 0, time.UTC)

type env struct {
	handler     http.Handler
	store       *memory.Store
	interviewer model.User
	candidate   model.User
	coordinator model.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	svc := planner.New(planner.Deps{
		Users:            store,
		InterviewerSlots: store,
		CandidateSlots:   store,
		Bookings:         store,
		Limits:           store,
		Events:           store,
		Tx:               store,
		Weeks:            week.NewCalculator(func() time.Time { return testNow }),
	})
	e := &env{
		store:       store,
		interviewer: model.User{ID: uuid.New(), Email: "iris@example.com", Role: model.RoleInterviewer},
		candidate:   model.User{ID: uuid.New(), Email: "casey@example.com", Role: model.RoleCandidate},
		coordinator: model.User{ID: uuid.New(), Email: "corin@example.com", Role: model.RoleCoordinator},
	}
	ctx := context.Background()
	for _, u := range []model.User{e.interviewer, e.candidate, e.coordinator} {
		if err := store.SaveUser(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	mux := http.NewServeMux()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(mux)
	e.handler = httpx.Chain(mux, Authenticate(HS256Verifier(testSecret)))
	return e
}

func (e *env) token(t *testing.T, u model.User) string {
	t.Helper()
	tok, err := auth.SignHS256(auth.Claims{
		Sub:   u.ID.String(),
		Email: u.Email,
		Role:  string(u.Role),
		Iat:   time.Now().Unix(),
		Exp:   time.Now().Add(time.Hour).Unix(),
	}, testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func (e *env) do(t *testing.T, u model.User, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+e.token(t, u))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error.Code
}

func TestAuthRequired(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weeks/current", nil)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/weeks/current", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", rec.Code)
	}
}

func TestWeeksEndpoints(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, e.candidate, http.MethodGet, "/api/v1/weeks/current", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp weekResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.WeekNum != "202249" {
		t.Fatalf("current week = %q, want 202249", resp.WeekNum)
	}

	rec = e.do(t, e.interviewer, http.MethodGet, "/api/v1/weeks/next", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.WeekNum != "202250" {
		t.Fatalf("next week = %q, want 202250", resp.WeekNum)
	}
}

func TestCreateInterviewerSlotEndpoint(t *testing.T) {
	e := newEnv(t)
	path := "/api/v1/interviewers/" + e.interviewer.ID.String() + "/slots"

	body := interviewerSlotRequest{
		WeekNum:   "202250",
		DayOfWeek: "MONDAY",
		Period:    periodPayload{From: "10:00", To: "12:00"},
	}
	rec := e.do(t, e.interviewer, http.MethodPost, path, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp interviewerSlotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.WeekNum != "202250" || resp.DayOfWeek != "MONDAY" || resp.Period.From != "10:00" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	// Wrong week maps to 422 with the violation code.
	body.WeekNum = "202249"
	rec = e.do(t, e.interviewer, http.MethodPost, path, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if errorCode(t, rec) != "NOT_NEXT_WEEK_NUMBER" {
		t.Fatalf("code = %q", errorCode(t, rec))
	}

	// Malformed body maps to 400.
	rec = e.do(t, e.interviewer, http.MethodPost, path, map[string]any{"week_num": "garbage"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestInterviewerCannotTouchOthers(t *testing.T) {
	e := newEnv(t)
	path := "/api/v1/interviewers/" + uuid.New().String() + "/slots"

	rec := e.do(t, e.interviewer, http.MethodPost, path, interviewerSlotRequest{
		WeekNum:   "202250",
		DayOfWeek: "MONDAY",
		Period:    periodPayload{From: "10:00", To: "12:00"},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestCandidateForbiddenFromCoordinatorRoutes(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, e.candidate, http.MethodPost, "/api/v1/bookings", bookingRequest{
		InterviewerSlotID: uuid.New().String(),
		CandidateSlotID:   uuid.New().String(),
		Period:            periodPayload{From: "10:00", To: "11:30"},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	rec = e.do(t, e.candidate, http.MethodGet, "/api/v1/dashboard/202250", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("dashboard status = %d, want 403", rec.Code)
	}
}

func TestCandidateSlotEndpoints(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, e.candidate, http.MethodPost, "/api/v1/candidates/slots", candidateSlotRequest{
		Date:   "2022-12-12",
		Period: periodPayload{From: "15:30", To: "18:00"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var created candidateSlotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Email != e.candidate.Email || created.Date != "2022-12-12" {
		t.Fatalf("unexpected response: %+v", created)
	}

	rec = e.do(t, e.candidate, http.MethodDelete, "/api/v1/candidates/slots/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	// Deleting again is a 404 with the slot code.
	rec = e.do(t, e.candidate, http.MethodDelete, "/api/v1/candidates/slots/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", rec.Code)
	}
	if errorCode(t, rec) != "CANDIDATE_SLOT_NOT_FOUND" {
		t.Fatalf("code = %q", errorCode(t, rec))
	}
}

func TestBookingFlowAndDashboard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	islot := model.InterviewerSlot{
		ID:            uuid.New(),
		InterviewerID: e.interviewer.ID,
		Week:          week.Week{Year: 2022, Num: 50},
		DayOfWeek:     time.Monday,
	}
	islot.Period.From, islot.Period.To = 480, 1200 // 08:00-20:00
	if err := e.store.SaveInterviewerSlot(ctx, islot); err != nil {
		t.Fatalf("seed interviewer slot: %v", err)
	}
	cslot := model.CandidateSlot{
		ID:    uuid.New(),
		Email: e.candidate.Email,
		Date:  time.Date(2022, 12, 12, 0, 0, 0, 0, time.UTC),
	}
	cslot.Period.From, cslot.Period.To = 930, 1080 // 15:30-18:00
	if err := e.store.SaveCandidateSlot(ctx, cslot); err != nil {
		t.Fatalf("seed candidate slot: %v", err)
	}

	rec := e.do(t, e.coordinator, http.MethodPost, "/api/v1/bookings", bookingRequest{
		InterviewerSlotID: islot.ID.String(),
		CandidateSlotID:   cslot.ID.String(),
		Period:            periodPayload{From: "15:30", To: "17:00"},
		Subject:           "Backend interview",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create booking status = %d, body %s", rec.Code, rec.Body)
	}
	var booked bookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &booked); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = e.do(t, e.coordinator, http.MethodGet, "/api/v1/dashboard/202250", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, body %s", rec.Code, rec.Body)
	}
	var dash dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &dash); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(dash.Days) != 7 || dash.Days[0].DayOfWeek != "MONDAY" {
		t.Fatalf("unexpected dashboard: %+v", dash)
	}
	if len(dash.Days[0].Bookings) != 1 || dash.Days[0].Bookings[0].ID != booked.ID {
		t.Fatalf("Monday bookings wrong: %+v", dash.Days[0].Bookings)
	}

	rec = e.do(t, e.coordinator, http.MethodDelete, "/api/v1/bookings/"+booked.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete booking status = %d", rec.Code)
	}
	rec = e.do(t, e.coordinator, http.MethodDelete, "/api/v1/bookings/"+booked.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", rec.Code)
	}
}

func TestRoleAdministration(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, e.coordinator, http.MethodPost, "/api/v1/users/"+e.candidate.ID.String()+"/roles",
		grantRoleRequest{Role: "INTERVIEWER"})
	if rec.Code != http.StatusOK {
		t.Fatalf("grant status = %d, body %s", rec.Code, rec.Body)
	}
	var u userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Role != "INTERVIEWER" {
		t.Fatalf("role = %q", u.Role)
	}

	// Revoking one's own coordinator role is forbidden.
	rec = e.do(t, e.coordinator, http.MethodDelete, "/api/v1/users/"+e.coordinator.ID.String()+"/roles/COORDINATOR", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("self revoke status = %d, want 403", rec.Code)
	}
	if errorCode(t, rec) != "SELF_ROLE_REVOCATION" {
		t.Fatalf("code = %q", errorCode(t, rec))
	}

	rec = e.do(t, e.coordinator, http.MethodGet, "/api/v1/users?role=INTERVIEWER", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var users []userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 interviewers, got %d", len(users))
	}
}
