package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointment_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusPending, false},

		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusConfirmed, StatusPending, false},

		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCancelled, StatusCancelled, false},

		{StatusCompleted, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			appt := &Appointment{Status: tt.from}
			assert.Equal(t, tt.want, appt.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointment_StatusPredicates(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending}).IsActive())
	assert.True(t, (&Appointment{Status: StatusConfirmed}).IsActive())
	assert.False(t, (&Appointment{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Appointment{Status: StatusCompleted}).IsActive())

	assert.True(t, (&Appointment{Status: StatusCancelled}).IsTerminal())
	assert.True(t, (&Appointment{Status: StatusCompleted}).IsTerminal())
	assert.False(t, (&Appointment{Status: StatusPending}).IsTerminal())

	assert.True(t, (&Appointment{Status: StatusConfirmed}).CanBeRescheduled())
	assert.False(t, (&Appointment{Status: StatusCompleted}).CanBeRescheduled())
}
