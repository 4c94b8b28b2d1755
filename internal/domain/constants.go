package domain

// Default booking values
const (
	DefaultDurationMinutes = 45
	DefaultSlotCapacity    = 1
)

// Business validation constants
const (
	MinClientNameLength = 2
	MaxClientNameLength = 120
	MaxNotesLength      = 500
	MaxBudgetLength     = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы встреч, занимающих место в слоте.
// Используется при подсчете занятости и сверке счетчика booked.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses финальные статусы: место в слоте освобождено
var TerminalStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusCompleted,
}
