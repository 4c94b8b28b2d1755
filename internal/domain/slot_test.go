package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlot_Availability(t *testing.T) {
	open := &Slot{Capacity: 3, Booked: 1, Enabled: true}
	assert.True(t, open.IsAvailable())
	assert.False(t, open.IsFull())
	assert.Equal(t, 2, open.AvailableSeats())

	full := &Slot{Capacity: 2, Booked: 2, Enabled: true}
	assert.False(t, full.IsAvailable())
	assert.True(t, full.IsFull())
	assert.Equal(t, 0, full.AvailableSeats())

	disabled := &Slot{Capacity: 2, Booked: 0, Enabled: false}
	assert.False(t, disabled.IsAvailable())

	// Счетчик выше вместимости трактуется как полный слот
	drifted := &Slot{Capacity: 2, Booked: 5, Enabled: true}
	assert.True(t, drifted.IsFull())
	assert.Equal(t, 0, drifted.AvailableSeats())
}
