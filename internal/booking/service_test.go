package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kashtn/nail-studio/internal/models"
)

type fakeCatalog struct {
	services map[int]models.Service
	err      error
}

func (f *fakeCatalog) ServiceByID(ctx context.Context, id int) (models.Service, error) {
	if f.err != nil {
		return models.Service{}, f.err
	}
	service, ok := f.services[id]
	if !ok {
		return models.Service{}, ErrServiceNotFound
	}
	return service, nil
}

type fakeAppointments struct {
	booked    map[string]map[string]bool
	inserted  []models.Appointment
	insertErr error
}

func (f *fakeAppointments) BookedTimes(ctx context.Context, date string) (map[string]bool, error) {
	if f.booked == nil {
		return map[string]bool{}, nil
	}
	return f.booked[date], nil
}

func (f *fakeAppointments) Insert(ctx context.Context, appointment models.Appointment) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, appointment)
	return nil
}

var testNow = time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeCatalog, *fakeAppointments, Store) {
	t.Helper()

	cat := &fakeCatalog{services: map[int]models.Service{
		1: {ID: 1, Name: "Маникюр классический", Price: 25, Duration: 30},
		2: {ID: 2, Name: "Педикюр", Price: 40, Duration: 45},
	}}
	appts := &fakeAppointments{}
	store := NewMemoryStore()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(cat, appts, store, nil, nil, nil, log, time.UTC, Hours{
		OpeningHour: 9,
		ClosingHour: 17,
		SlotMinutes: 30,
		WindowDays:  60,
	})
	svc.now = func() time.Time { return testNow }

	return svc, cat, appts, store
}

func TestStartBlankSession(t *testing.T) {
	svc, _, _, store := newTestService(t)
	ctx := context.Background()

	view, err := svc.Start(ctx, 0)
	require.NoError(t, err)
	require.NotEmpty(t, view.Key)
	require.Equal(t, StepService, view.Draft.Step)

	_, found, err := store.Load(ctx, view.Key)
	require.NoError(t, err)
	require.True(t, found)
}

func TestStartWithPreselectedService(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	view, err := svc.Start(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 2, view.Draft.ServiceID)
	require.Equal(t, StepDate, view.Draft.Step)
	require.Equal(t, "Педикюр", view.ServiceName)
}

func TestStartIgnoresUnknownPreselect(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	view, err := svc.Start(context.Background(), 99)
	require.NoError(t, err)
	require.Zero(t, view.Draft.ServiceID)
	require.Equal(t, StepService, view.Draft.Step)
}

func TestSelectDateOutsideWindow(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.Start(ctx, 1)
	require.NoError(t, err)

	_, err = svc.SelectDate(ctx, view.Key, "2024-06-09")
	require.ErrorIs(t, err, ErrDateNotBookable)

	_, err = svc.SelectDate(ctx, view.Key, "2024-08-10")
	require.ErrorIs(t, err, ErrDateNotBookable)

	got, err := svc.SelectDate(ctx, view.Key, "2024-08-09")
	require.NoError(t, err)
	require.Equal(t, StepTime, got.Draft.Step)
}

func TestSelectTimeRejectsBookedSlot(t *testing.T) {
	svc, _, appts, _ := newTestService(t)
	appts.booked = map[string]map[string]bool{
		"2024-06-10": {"10:30": true},
	}
	ctx := context.Background()

	view, err := svc.Start(ctx, 1)
	require.NoError(t, err)
	_, err = svc.SelectDate(ctx, view.Key, "2024-06-10")
	require.NoError(t, err)

	_, err = svc.SelectTime(ctx, view.Key, "10:30")
	require.ErrorIs(t, err, ErrSlotUnavailable)

	got, err := svc.SelectTime(ctx, view.Key, "11:00")
	require.NoError(t, err)
	require.Equal(t, StepDetails, got.Draft.Step)
}

func TestSubmitCreatesPendingAppointment(t *testing.T) {
	svc, _, appts, store := newTestService(t)
	ctx := context.Background()

	view, err := svc.Start(ctx, 0)
	require.NoError(t, err)
	key := view.Key

	_, err = svc.SelectService(ctx, key, 1)
	require.NoError(t, err)
	_, err = svc.SelectDate(ctx, key, "2024-06-10")
	require.NoError(t, err)
	_, err = svc.SelectTime(ctx, key, "10:30")
	require.NoError(t, err)
	_, err = svc.UpdateDetails(ctx, key, "Anna", "anna@example.com", "+70000000000", "")
	require.NoError(t, err)

	appointment, err := svc.Submit(ctx, key, "")
	require.NoError(t, err)

	require.NotEmpty(t, appointment.ID)
	require.Empty(t, appointment.ClientID)
	require.Equal(t, 1, appointment.ServiceID)
	require.Equal(t, models.AppointmentStatusPending, appointment.Status)
	require.Equal(t, time.Date(2024, 6, 10, 10, 30, 0, 0, time.UTC), appointment.AppointmentDate)
	require.Equal(t, "Anna", appointment.ClientName)
	require.Equal(t, "+70000000000", appointment.ClientPhone)

	require.Len(t, appts.inserted, 1)

	// The draft is gone once the appointment exists.
	_, found, err := store.Load(ctx, key)
	require.NoError(t, err)
	require.False(t, found)
}

func TestSubmitKeepsDraftOnInsertFailure(t *testing.T) {
	svc, _, appts, store := newTestService(t)
	appts.insertErr = errors.New("write timeout")
	ctx := context.Background()

	view, err := svc.Start(ctx, 1)
	require.NoError(t, err)
	key := view.Key

	_, err = svc.SelectDate(ctx, key, "2024-06-10")
	require.NoError(t, err)
	_, err = svc.SelectTime(ctx, key, "10:30")
	require.NoError(t, err)
	_, err = svc.UpdateDetails(ctx, key, "Anna", "", "+70000000000", "")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, key, "")
	require.Error(t, err)

	d, found, loadErr := store.Load(ctx, key)
	require.NoError(t, loadErr)
	require.True(t, found)
	require.Equal(t, StepDetails, d.Step)
	require.Equal(t, "Anna", d.ClientName)

	// The retry goes through once the write succeeds.
	appts.insertErr = nil
	appointment, err := svc.Submit(ctx, key, "client-7")
	require.NoError(t, err)
	require.Equal(t, "client-7", appointment.ClientID)
}

func TestSubmitRechecksSlotAgainstLiveData(t *testing.T) {
	svc, _, appts, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.Start(ctx, 1)
	require.NoError(t, err)
	key := view.Key

	_, err = svc.SelectDate(ctx, key, "2024-06-10")
	require.NoError(t, err)
	_, err = svc.SelectTime(ctx, key, "10:30")
	require.NoError(t, err)
	_, err = svc.UpdateDetails(ctx, key, "Anna", "", "+70000000000", "")
	require.NoError(t, err)

	// Someone books the slot between the draft and the submit.
	appts.booked = map[string]map[string]bool{
		"2024-06-10": {"10:30": true},
	}

	_, err = svc.Submit(ctx, key, "")
	require.ErrorIs(t, err, ErrSlotUnavailable)
	require.Empty(t, appts.inserted)
}

func TestSubmitRequiresCompleteDraft(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.Start(ctx, 1)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, view.Key, "")
	require.ErrorIs(t, err, ErrInvalidStep)
}

func TestResumeRecomputesStep(t *testing.T) {
	svc, _, _, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k1", Draft{
		ServiceID: 1,
		Date:      "2024-06-10",
		TimeSlot:  "10:30",
		Step:      StepDate,
	}))

	view, err := svc.Resume(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, StepDetails, view.Draft.Step)
	require.Equal(t, "Маникюр классический", view.ServiceName)
	require.NotEmpty(t, view.Slots)
}

func TestResumeDegradesWhenServiceRemoved(t *testing.T) {
	svc, _, _, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k1", Draft{
		ServiceID:  42,
		Date:       "2024-06-10",
		TimeSlot:   "10:30",
		ClientName: "Anna",
		Step:       StepDetails,
	}))

	view, err := svc.Resume(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, StepService, view.Draft.Step)
	require.Zero(t, view.Draft.ServiceID)
	require.Equal(t, "Anna", view.Draft.ClientName)
}

func TestResumeDefersOnCatalogFailure(t *testing.T) {
	svc, cat, _, store := newTestService(t)
	ctx := context.Background()

	stored := Draft{ServiceID: 1, Date: "2024-06-10", Step: StepTime}
	require.NoError(t, store.Save(ctx, "k1", stored))

	cat.err = errors.New("connection refused")
	_, err := svc.Resume(ctx, "k1")
	require.Error(t, err)

	// The draft survives the failed restore untouched.
	d, found, loadErr := store.Load(ctx, "k1")
	require.NoError(t, loadErr)
	require.True(t, found)
	require.Equal(t, stored, d)

	cat.err = nil
	view, err := svc.Resume(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, StepTime, view.Draft.Step)
}

func TestResumeDiscardsCorruptDraft(t *testing.T) {
	svc, _, _, store := newTestService(t)
	ctx := context.Background()

	mem := store.(*MemoryStore)
	mem.drafts["k1"] = []byte("{not json")

	view, err := svc.Resume(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, StepService, view.Draft.Step)
	require.Zero(t, view.Draft.ServiceID)
}

func TestResumeUnknownKey(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Resume(context.Background(), "nope")
	require.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSlotsEmptyDate(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	slots, err := svc.Slots(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, slots)
}

func TestFallbackCatalogServesDefaults(t *testing.T) {
	primary := &fakeCatalog{err: errors.New("connection refused")}
	fallback := &FallbackCatalog{Primary: primary}

	service, err := fallback.ServiceByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, service.Name)

	_, err = fallback.ServiceByID(context.Background(), 999)
	require.ErrorIs(t, err, ErrServiceNotFound)
}
