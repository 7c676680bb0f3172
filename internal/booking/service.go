package booking

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kashtn/nail-studio/internal/catalog"
	"github.com/kashtn/nail-studio/internal/gateway"
	"github.com/kashtn/nail-studio/internal/metrics"
	"github.com/kashtn/nail-studio/internal/models"
	"github.com/kashtn/nail-studio/internal/schedule"
)

// Mailer sends the appointment confirmation email.
type Mailer interface {
	SendAppointmentConfirmation(ctx context.Context, appointment models.Appointment, service models.Service) (string, error)
}

// Hours are the salon opening parameters the slot generator runs with.
type Hours struct {
	OpeningHour int
	ClosingHour int
	SlotMinutes int
	WindowDays  int
}

// Service drives booking wizard sessions: it applies transitions, persists
// the draft after each one and turns a completed draft into an appointment.
type Service struct {
	catalog      Catalog
	appointments AppointmentWriter
	store        Store
	notifier     *gateway.Notifier
	mailer       Mailer
	metrics      *metrics.BookingMetrics
	log          *slog.Logger
	loc          *time.Location
	hours        Hours
	now          func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewService(cat Catalog, appts AppointmentWriter, store Store, notifier *gateway.Notifier, mailer Mailer, m *metrics.BookingMetrics, log *slog.Logger, loc *time.Location, hours Hours) *Service {
	return &Service{
		catalog:      cat,
		appointments: appts,
		store:        store,
		notifier:     notifier,
		mailer:       mailer,
		metrics:      m,
		log:          log,
		loc:          loc,
		hours:        hours,
		now:          time.Now,
		inflight:     make(map[string]struct{}),
	}
}

// View is what the wizard client renders: the draft, the slots for its date
// and the resolved service name.
type View struct {
	Key         string          `json:"key"`
	Draft       Draft           `json:"draft"`
	ServiceName string          `json:"service_name,omitempty"`
	Slots       []schedule.Slot `json:"slots,omitempty"`
}

// Start opens a new wizard session. A pre-selected service id (the
// ?service= navigation parameter) skips straight to date selection when it
// resolves; an unknown id is ignored and the wizard starts blank.
func (s *Service) Start(ctx context.Context, preselect int) (View, error) {
	d := NewDraft()
	if preselect != 0 {
		if _, err := s.catalog.ServiceByID(ctx, preselect); err == nil {
			d.ServiceID = preselect
			d.Step = StepDate
		} else if !errors.Is(err, ErrServiceNotFound) {
			return View{}, err
		}
	}

	key := uuid.NewString()
	if err := s.store.Save(ctx, key, d); err != nil {
		return View{}, err
	}
	return s.view(ctx, key, d)
}

// Resume loads a stored draft and recomputes the step it may continue at. A
// corrupt payload counts as no draft. A catalog read failure defers the
// restore: the error is returned and the stored draft stays untouched.
func (s *Service) Resume(ctx context.Context, key string) (View, error) {
	d, found, err := s.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCorruptDraft) {
			s.log.Warn("booking resume: corrupt draft discarded", slog.String("session", key))
			s.metrics.ObserveDraftRestore("corrupt")
			d = NewDraft()
			if err := s.store.Save(ctx, key, d); err != nil {
				return View{}, err
			}
			return s.view(ctx, key, d)
		}
		return View{}, err
	}
	if !found {
		return View{}, ErrDraftNotFound
	}

	resolves := false
	if d.ServiceID != 0 {
		switch _, err := s.catalog.ServiceByID(ctx, d.ServiceID); {
		case err == nil:
			resolves = true
		case errors.Is(err, ErrServiceNotFound):
			s.metrics.ObserveDraftRestore("service_gone")
		default:
			// Catalog unavailable: restoration is deferred, not dropped.
			s.metrics.ObserveDraftRestore("deferred")
			return View{}, err
		}
	}

	d.RestoreStep(resolves)
	if err := s.store.Save(ctx, key, d); err != nil {
		return View{}, err
	}
	s.metrics.ObserveDraftRestore("ok")
	return s.view(ctx, key, d)
}

func (s *Service) SelectService(ctx context.Context, key string, serviceID int) (View, error) {
	d, err := s.load(ctx, key)
	if err != nil {
		return View{}, err
	}

	if _, err := s.catalog.ServiceByID(ctx, serviceID); err != nil {
		return View{}, err
	}
	if err := SelectService(&d, serviceID); err != nil {
		return View{}, err
	}
	return s.save(ctx, key, d)
}

func (s *Service) SelectDate(ctx context.Context, key, date string) (View, error) {
	d, err := s.load(ctx, key)
	if err != nil {
		return View{}, err
	}

	bookable, err := schedule.IsDateBookable(date, s.hours.WindowDays, s.loc, s.now())
	if err != nil {
		return View{}, err
	}
	if !bookable {
		return View{}, ErrDateNotBookable
	}
	if err := SelectDate(&d, date); err != nil {
		return View{}, err
	}
	return s.save(ctx, key, d)
}

func (s *Service) SelectTime(ctx context.Context, key, label string) (View, error) {
	d, err := s.load(ctx, key)
	if err != nil {
		return View{}, err
	}

	slots, err := s.Slots(ctx, d.Date)
	if err != nil {
		return View{}, err
	}
	if err := SelectTime(&d, slots, label); err != nil {
		return View{}, err
	}
	return s.save(ctx, key, d)
}

func (s *Service) Back(ctx context.Context, key string) (View, error) {
	d, err := s.load(ctx, key)
	if err != nil {
		return View{}, err
	}
	if err := Back(&d); err != nil {
		return View{}, err
	}
	return s.save(ctx, key, d)
}

func (s *Service) UpdateDetails(ctx context.Context, key, name, email, phone, notes string) (View, error) {
	d, err := s.load(ctx, key)
	if err != nil {
		return View{}, err
	}
	if err := UpdateDetails(&d, name, email, phone, notes); err != nil {
		return View{}, err
	}
	return s.save(ctx, key, d)
}

// Slots generates the slot sequence for a date. An empty date yields an
// empty sequence, which is a valid "no date selected" state.
func (s *Service) Slots(ctx context.Context, date string) ([]schedule.Slot, error) {
	if date == "" {
		return []schedule.Slot{}, nil
	}
	booked, err := s.appointments.BookedTimes(ctx, date)
	if err != nil {
		return nil, err
	}
	return schedule.Generate(date, s.hours.OpeningHour, s.hours.ClosingHour, s.hours.SlotMinutes, booked, s.loc, s.now())
}

// Submit turns a completed draft into a pending appointment. The draft is
// deleted only after the insert succeeds, so a failed write can be retried
// without re-entering anything. clientID is empty for guest bookings.
func (s *Service) Submit(ctx context.Context, key, clientID string) (models.Appointment, error) {
	if !s.acquire(key) {
		return models.Appointment{}, ErrSubmitInFlight
	}
	defer s.release(key)

	d, err := s.load(ctx, key)
	if err != nil {
		return models.Appointment{}, err
	}
	if err := ReadyToSubmit(d); err != nil {
		return models.Appointment{}, err
	}

	// The state machine already gated these; re-check against live data so a
	// stale draft cannot book a removed service or a taken slot.
	service, err := s.catalog.ServiceByID(ctx, d.ServiceID)
	if err != nil {
		return models.Appointment{}, err
	}
	slots, err := s.Slots(ctx, d.Date)
	if err != nil {
		return models.Appointment{}, err
	}
	if slot, ok := schedule.FindSlot(slots, d.TimeSlot); !ok || !slot.Available {
		return models.Appointment{}, ErrSlotUnavailable
	}

	when, err := schedule.ParseDateTime(d.Date, d.TimeSlot, s.loc)
	if err != nil {
		return models.Appointment{}, err
	}

	appointment := models.Appointment{
		ID:              primitive.NewObjectID().Hex(),
		ClientID:        clientID,
		ServiceID:       d.ServiceID,
		AppointmentDate: when,
		Status:          models.AppointmentStatusPending,
		ClientName:      d.ClientName,
		ClientEmail:     d.ClientEmail,
		ClientPhone:     d.ClientPhone,
		Notes:           d.Notes,
		CreatedAt:       s.now().In(s.loc),
	}

	if err := s.appointments.Insert(ctx, appointment); err != nil {
		s.metrics.ObserveSubmission("failed")
		s.log.Error("booking submit: insert failed",
			slog.String("session", key),
			slog.String("error", err.Error()),
		)
		return models.Appointment{}, err
	}

	s.metrics.ObserveSubmission("created")
	s.log.Info("booking submit: appointment created",
		slog.String("appointment_id", appointment.ID),
		slog.Int("service_id", appointment.ServiceID),
		slog.Time("appointment_date", appointment.AppointmentDate),
	)

	s.notifier.NotifyAsync(gateway.TargetAppointments)
	if s.mailer != nil && appointment.ClientEmail != "" {
		go s.sendConfirmation(appointment, service)
	}

	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn("booking submit: draft cleanup failed",
			slog.String("session", key),
			slog.String("error", err.Error()),
		)
	}

	return appointment, nil
}

func (s *Service) sendConfirmation(appointment models.Appointment, service models.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	messageID, err := s.mailer.SendAppointmentConfirmation(ctx, appointment, service)
	if err != nil {
		s.log.Warn("booking email: send failed",
			slog.String("appointment_id", appointment.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	s.log.Info("booking email: sent",
		slog.String("appointment_id", appointment.ID),
		slog.String("message_id", messageID),
	)
}

func (s *Service) load(ctx context.Context, key string) (Draft, error) {
	d, found, err := s.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCorruptDraft) {
			return Draft{}, ErrDraftNotFound
		}
		return Draft{}, err
	}
	if !found {
		return Draft{}, ErrDraftNotFound
	}
	return d, nil
}

func (s *Service) save(ctx context.Context, key string, d Draft) (View, error) {
	if err := s.store.Save(ctx, key, d); err != nil {
		return View{}, err
	}
	return s.view(ctx, key, d)
}

func (s *Service) view(ctx context.Context, key string, d Draft) (View, error) {
	v := View{Key: key, Draft: d}
	if d.ServiceID != 0 {
		if service, err := s.catalog.ServiceByID(ctx, d.ServiceID); err == nil {
			v.ServiceName = service.Name
		}
	}
	if d.Date != "" {
		slots, err := s.Slots(ctx, d.Date)
		if err != nil {
			return View{}, err
		}
		v.Slots = slots
	}
	return v, nil
}

func (s *Service) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *Service) release(key string) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}

// FallbackCatalog serves lookups from the bundled default catalog when the
// primary one is unreachable, keeping the wizard usable offline.
type FallbackCatalog struct {
	Primary Catalog
	Log     *slog.Logger
}

func (c *FallbackCatalog) ServiceByID(ctx context.Context, id int) (models.Service, error) {
	service, err := c.Primary.ServiceByID(ctx, id)
	if err == nil || errors.Is(err, ErrServiceNotFound) {
		return service, err
	}

	if c.Log != nil {
		c.Log.Warn("catalog: primary lookup failed, using defaults", slog.String("error", err.Error()))
	}
	if fallback, ok := catalog.FindByID(catalog.DefaultServices(time.Now()), id); ok {
		return fallback, nil
	}
	return models.Service{}, ErrServiceNotFound
}
