package reserve_slot

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/Realty-BookingService/internal/domain"
	"github.com/m04kA/Realty-BookingService/pkg/types"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrSlotNotFound возвращается, когда на дату нет слота с запрошенным временем
	ErrSlotNotFound = errors.New("reserve_slot: slot not found")

	// ErrSlotFull возвращается, когда все места в слоте заняты
	ErrSlotFull = errors.New("reserve_slot: slot is fully booked")

	// ErrSlotBusy возвращается, когда слот заблокирован конкурирующим запросом
	ErrSlotBusy = errors.New("reserve_slot: slot is busy, retry later")

	// ErrAppointmentNotFound возвращается при переносе несуществующей встречи
	ErrAppointmentNotFound = errors.New("reserve_slot: appointment not found")

	// ErrAppointmentNotReschedulable возвращается при переносе встречи в финальном статусе
	ErrAppointmentNotReschedulable = errors.New("reserve_slot: appointment can not be rescheduled")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slot: internal error")
)

// FieldIssue описывает одну ошибку валидации поля запроса
type FieldIssue struct {
	Field   string
	Message string
}

// ValidationError несет пофилдовый список проблем валидации.
// Совместим с errors.Is(err, ErrInvalidInput).
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %d field issue(s)", ErrInvalidInput, len(e.Issues))
}

// Is позволяет обрабатывать ошибку через errors.Is(err, ErrInvalidInput)
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// SlotNotFoundError несет диагностику для клиента: какое время запрошено
// и какие времена на эту дату реально доступны
type SlotNotFoundError struct {
	Date           time.Time
	RequestedTime  types.TimeString
	AvailableTimes []string
}

func (e *SlotNotFoundError) Error() string {
	return fmt.Sprintf("%v: no slot at %s on %s", ErrSlotNotFound,
		e.RequestedTime.HHMM(), e.Date.Format(domain.DateFormat))
}

// Is позволяет обрабатывать ошибку через errors.Is(err, ErrSlotNotFound)
func (e *SlotNotFoundError) Is(target error) bool {
	return target == ErrSlotNotFound
}

// SlotFullError несет занятость слота на момент отказа
type SlotFullError struct {
	Booked   int
	Capacity int
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("%v: %d/%d seats taken", ErrSlotFull, e.Booked, e.Capacity)
}

// Is позволяет обрабатывать ошибку через errors.Is(err, ErrSlotFull)
func (e *SlotFullError) Is(target error) bool {
	return target == ErrSlotFull
}
