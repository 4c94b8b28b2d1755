package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotFull возвращается, когда условное резервирование не прошло:
	// слот выключен или booked уже достиг capacity
	ErrSlotFull = errors.New("slot.repository: slot has no remaining capacity")

	// ErrNoSeatsToRelease возвращается при попытке освободить место в слоте
	// с booked = 0 (счетчик уже на нуле)
	ErrNoSeatsToRelease = errors.New("slot.repository: no booked seats to release")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
