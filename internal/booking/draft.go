package booking

import "errors"

const (
	StepService = 1
	StepDate    = 2
	StepTime    = 3
	StepDetails = 4
)

var (
	ErrInvalidStep     = errors.New("transition not allowed at current step")
	ErrServiceNotFound = errors.New("service not found")
	ErrDateNotBookable = errors.New("date outside booking window")
	ErrSlotUnavailable = errors.New("slot not available")
	ErrDraftIncomplete = errors.New("service, date and time must be selected")
	ErrDraftNotFound   = errors.New("draft not found")
	ErrSubmitInFlight  = errors.New("submission already in progress")
)

// Draft is the in-progress state of one booking wizard session. It is owned
// by a single session key and survives reloads through the draft store.
type Draft struct {
	ServiceID   int    `json:"selected_service_id,omitempty"`
	Date        string `json:"selected_date,omitempty"`
	TimeSlot    string `json:"selected_time_slot,omitempty"`
	ClientName  string `json:"client_name,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Step        int    `json:"current_step"`
}

func NewDraft() Draft {
	return Draft{Step: StepService}
}

// Complete reports whether every field required for submission is set.
func (d Draft) Complete() bool {
	return d.ServiceID != 0 && d.Date != "" && d.TimeSlot != ""
}

// RestoreStep recomputes the step a stored draft may resume at: the highest
// step whose prerequisites are all present. A service id that no longer
// resolves against the catalog degrades the draft to step 1 (entered details
// are kept, the stale selection is dropped).
func (d *Draft) RestoreStep(serviceResolves bool) {
	if d.ServiceID == 0 || !serviceResolves {
		d.ServiceID = 0
		d.Step = StepService
		return
	}

	step := StepDate
	if d.Date != "" {
		step = StepTime
		if d.TimeSlot != "" {
			step = StepDetails
		}
	}
	d.Step = step
}
