package booking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kashtn/nail-studio/internal/schedule"
)

func TestSelectServiceAdvancesToDate(t *testing.T) {
	d := NewDraft()

	require.NoError(t, SelectService(&d, 3))
	require.Equal(t, 3, d.ServiceID)
	require.Equal(t, StepDate, d.Step)
}

func TestSelectServiceOnlyAtFirstStep(t *testing.T) {
	d := Draft{ServiceID: 1, Step: StepTime}

	require.ErrorIs(t, SelectService(&d, 2), ErrInvalidStep)
	require.Equal(t, 1, d.ServiceID)
}

func TestReselectServiceKeepsEnteredData(t *testing.T) {
	d := Draft{
		ServiceID:  1,
		Date:       "2024-06-10",
		TimeSlot:   "10:30",
		ClientName: "Anna",
		Step:       StepDetails,
	}

	require.NoError(t, Back(&d))
	require.NoError(t, Back(&d))
	require.NoError(t, Back(&d))
	require.Equal(t, StepService, d.Step)

	require.NoError(t, SelectService(&d, 2))
	require.Equal(t, 2, d.ServiceID)
	require.Equal(t, "2024-06-10", d.Date)
	require.Equal(t, "10:30", d.TimeSlot)
	require.Equal(t, "Anna", d.ClientName)
}

func TestSelectDateClearsTimeSlot(t *testing.T) {
	d := Draft{ServiceID: 1, Date: "2024-06-10", TimeSlot: "10:30", Step: StepDetails}

	require.NoError(t, SelectDate(&d, "2024-06-12"))
	require.Equal(t, "2024-06-12", d.Date)
	require.Empty(t, d.TimeSlot)
	require.Equal(t, StepTime, d.Step)
}

func TestSelectDateBeforeServiceRejected(t *testing.T) {
	d := NewDraft()

	require.ErrorIs(t, SelectDate(&d, "2024-06-10"), ErrInvalidStep)
}

func TestSelectTimeRequiresAvailableSlot(t *testing.T) {
	slots := []schedule.Slot{
		{Time: "09:00", Available: true},
		{Time: "09:30", Available: false},
	}

	d := Draft{ServiceID: 1, Date: "2024-06-10", Step: StepTime}
	require.ErrorIs(t, SelectTime(&d, slots, "09:30"), ErrSlotUnavailable)
	require.ErrorIs(t, SelectTime(&d, slots, "22:00"), ErrSlotUnavailable)

	require.NoError(t, SelectTime(&d, slots, "09:00"))
	require.Equal(t, "09:00", d.TimeSlot)
	require.Equal(t, StepDetails, d.Step)
}

func TestBackStopsAtFirstStep(t *testing.T) {
	d := Draft{ServiceID: 1, Date: "2024-06-10", Step: StepTime}

	require.NoError(t, Back(&d))
	require.Equal(t, StepDate, d.Step)
	require.NoError(t, Back(&d))
	require.Equal(t, StepService, d.Step)
	require.ErrorIs(t, Back(&d), ErrInvalidStep)

	require.Equal(t, "2024-06-10", d.Date)
}

func TestUpdateDetailsOnlyAtDetailsStep(t *testing.T) {
	d := Draft{ServiceID: 1, Date: "2024-06-10", TimeSlot: "10:30", Step: StepTime}
	require.ErrorIs(t, UpdateDetails(&d, "Anna", "", "+70000000000", ""), ErrInvalidStep)

	d.Step = StepDetails
	require.NoError(t, UpdateDetails(&d, "Anna", "anna@example.com", "+70000000000", "ok"))
	require.Equal(t, "Anna", d.ClientName)
	require.Equal(t, "anna@example.com", d.ClientEmail)
	require.Equal(t, "+70000000000", d.ClientPhone)
	require.Equal(t, "ok", d.Notes)
}

func TestReadyToSubmit(t *testing.T) {
	complete := Draft{ServiceID: 1, Date: "2024-06-10", TimeSlot: "10:30", Step: StepDetails}
	require.NoError(t, ReadyToSubmit(complete))

	wrongStep := complete
	wrongStep.Step = StepTime
	require.ErrorIs(t, ReadyToSubmit(wrongStep), ErrInvalidStep)

	missingTime := complete
	missingTime.TimeSlot = ""
	require.ErrorIs(t, ReadyToSubmit(missingTime), ErrDraftIncomplete)
}

func TestRestoreStepPicksHighestReachable(t *testing.T) {
	cases := []struct {
		name     string
		draft    Draft
		resolves bool
		want     int
	}{
		{"no service", Draft{Step: StepDetails}, true, StepService},
		{"service only", Draft{ServiceID: 1, Step: StepService}, true, StepDate},
		{"service and date", Draft{ServiceID: 1, Date: "2024-06-10"}, true, StepTime},
		{"all selected", Draft{ServiceID: 1, Date: "2024-06-10", TimeSlot: "10:30"}, true, StepDetails},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := tc.draft
			d.RestoreStep(tc.resolves)
			require.Equal(t, tc.want, d.Step)
		})
	}
}

func TestRestoreStepDegradesWhenServiceGone(t *testing.T) {
	d := Draft{
		ServiceID:  9,
		Date:       "2024-06-10",
		TimeSlot:   "10:30",
		ClientName: "Anna",
		Step:       StepDetails,
	}

	d.RestoreStep(false)

	require.Equal(t, StepService, d.Step)
	require.Zero(t, d.ServiceID)
	// Everything already entered stays for when a service is re-picked.
	require.Equal(t, "2024-06-10", d.Date)
	require.Equal(t, "Anna", d.ClientName)
}
