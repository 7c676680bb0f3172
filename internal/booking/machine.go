package booking

import (
	"github.com/kashtn/nail-studio/internal/schedule"
)

// The wizard is a linear four-step flow. Transition functions mutate the
// draft in place and gate on the current step; they never touch storage.

// SelectService is valid at step 1 only. Re-selecting a service after
// navigating back keeps the already-entered date, time and details.
func SelectService(d *Draft, serviceID int) error {
	if d.Step != StepService {
		return ErrInvalidStep
	}
	d.ServiceID = serviceID
	d.Step = StepDate
	return nil
}

// SelectDate is valid from step 2 onward so a date change on a later step is
// an ordinary transition. Any chosen time slot is discarded because slots are
// scoped to a single date.
func SelectDate(d *Draft, date string) error {
	if d.Step < StepDate {
		return ErrInvalidStep
	}
	d.Date = date
	d.TimeSlot = ""
	d.Step = StepTime
	return nil
}

// SelectTime accepts only a slot generated for the draft's date and marked
// available.
func SelectTime(d *Draft, slots []schedule.Slot, label string) error {
	if d.Step != StepTime {
		return ErrInvalidStep
	}
	slot, ok := schedule.FindSlot(slots, label)
	if !ok || !slot.Available {
		return ErrSlotUnavailable
	}
	d.TimeSlot = label
	d.Step = StepDetails
	return nil
}

// Back steps one step towards the start without clearing entered data.
func Back(d *Draft) error {
	if d.Step <= StepService || d.Step > StepDetails {
		return ErrInvalidStep
	}
	d.Step--
	return nil
}

func UpdateDetails(d *Draft, name, email, phone, notes string) error {
	if d.Step != StepDetails {
		return ErrInvalidStep
	}
	d.ClientName = name
	d.ClientEmail = email
	d.ClientPhone = phone
	d.Notes = notes
	return nil
}

// ReadyToSubmit gates the Submit transition.
func ReadyToSubmit(d Draft) error {
	if d.Step != StepDetails {
		return ErrInvalidStep
	}
	if !d.Complete() {
		return ErrDraftIncomplete
	}
	return nil
}
