package booking

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/kashtn/nail-studio/internal/schedule"
	"github.com/kashtn/nail-studio/internal/validation"
)

func newTestRouter(t *testing.T) (*chi.Mux, *fakeAppointments) {
	t.Helper()

	svc, _, appts, _ := newTestService(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(svc, validation.New(), nil, log)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.Routes(r)
	})
	return r, appts
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) View {
	t.Helper()

	var view View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestWizardFullFlow(t *testing.T) {
	r, appts := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/booking/drafts", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decodeView(t, rec)
	require.NotEmpty(t, view.Key)
	require.Equal(t, StepService, view.Draft.Step)
	base := "/api/booking/drafts/" + view.Key

	rec = doJSON(t, r, http.MethodPost, base+"/service", map[string]int{"serviceId": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	require.Equal(t, StepDate, view.Draft.Step)
	require.Equal(t, "Маникюр классический", view.ServiceName)

	rec = doJSON(t, r, http.MethodPost, base+"/date", map[string]string{"date": "2024-06-10"})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	require.Equal(t, StepTime, view.Draft.Step)
	require.Len(t, view.Slots, 16)
	require.Equal(t, "09:00", view.Slots[0].Time)
	require.Equal(t, "16:30", view.Slots[len(view.Slots)-1].Time)

	rec = doJSON(t, r, http.MethodPost, base+"/time", map[string]string{"time": "10:30"})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	require.Equal(t, StepDetails, view.Draft.Step)
	require.Equal(t, "10:30", view.Draft.TimeSlot)

	rec = doJSON(t, r, http.MethodPut, base+"/details", map[string]string{
		"name":  "Anna",
		"phone": "+70000000000",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Appointment struct {
			ID         string `json:"id"`
			ServiceID  int    `json:"service_id"`
			Status     string `json:"status"`
			ClientName string `json:"client_name"`
		} `json:"appointment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Appointment.ID)
	require.Equal(t, 1, resp.Appointment.ServiceID)
	require.Equal(t, "pending", resp.Appointment.Status)
	require.Equal(t, "Anna", resp.Appointment.ClientName)
	require.Len(t, appts.inserted, 1)

	// The session is gone after a successful submit.
	rec = doJSON(t, r, http.MethodGet, base, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWizardPreselectedService(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/booking/drafts", map[string]int{"serviceId": 2})
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decodeView(t, rec)
	require.Equal(t, StepDate, view.Draft.Step)
	require.Equal(t, 2, view.Draft.ServiceID)
}

func TestWizardResumeAfterReload(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/booking/drafts", map[string]int{"serviceId": 1})
	view := decodeView(t, rec)
	base := "/api/booking/drafts/" + view.Key

	rec = doJSON(t, r, http.MethodPost, base+"/date", map[string]string{"date": "2024-06-12"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)
	require.Equal(t, StepTime, view.Draft.Step)
	require.Equal(t, "2024-06-12", view.Draft.Date)
	require.NotEmpty(t, view.Slots)
}

func TestWizardRejectsInvalidInput(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/booking/drafts", nil)
	view := decodeView(t, rec)
	base := "/api/booking/drafts/" + view.Key

	rec = doJSON(t, r, http.MethodPost, base+"/date", map[string]string{"date": "not-a-date"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, base+"/service", map[string]int{"serviceId": 99})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Date selection before a service is picked.
	rec = doJSON(t, r, http.MethodPost, base+"/date", map[string]string{"date": "2024-06-12"})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestWizardUnknownSession(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/booking/drafts/5f0c9f9e-0000-0000-0000-000000000000", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWizardBookedSlotConflict(t *testing.T) {
	r, appts := newTestRouter(t)
	appts.booked = map[string]map[string]bool{
		"2024-06-12": {"10:30": true},
	}

	rec := doJSON(t, r, http.MethodPost, "/api/booking/drafts", map[string]int{"serviceId": 1})
	view := decodeView(t, rec)
	base := "/api/booking/drafts/" + view.Key

	rec = doJSON(t, r, http.MethodPost, base+"/date", map[string]string{"date": "2024-06-12"})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec)

	slot, ok := schedule.FindSlot(view.Slots, "10:30")
	require.True(t, ok)
	require.False(t, slot.Available)

	rec = doJSON(t, r, http.MethodPost, base+"/time", map[string]string{"time": "10:30"})
	require.Equal(t, http.StatusConflict, rec.Code)
}
