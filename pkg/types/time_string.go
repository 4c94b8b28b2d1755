package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeString возвращается при невозможности разобрать строку времени
	ErrInvalidTimeString = errors.New("types: invalid time string format")
)

// TimeString represents a time of day stored in canonical "HH:MM:SS" form.
// Input is tolerant to the textual granularities the booking flow produces
// ("10:0", "10:00", "10:00:00"); two values are considered the same slot time
// when their hour and minute components match, seconds are ignored.
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды обнуляются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d:00", t.Hour(), t.Minute()))
}

// NewTimeStringFromString нормализует текстовое время к каноничному виду HH:MM:SS.
// Алгоритм: разбиваем по ":", дополняем часы и минуты нулями слева до двух цифр;
// если секунды отсутствуют - добавляем "00".
func NewTimeStringFromString(s string) (TimeString, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	if len(parts) == 2 {
		parts = append(parts, "00")
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
		nums[i] = n
	}

	if nums[0] < 0 || nums[0] > 23 || nums[1] < 0 || nums[1] > 59 || nums[2] < 0 || nums[2] > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	return TimeString(fmt.Sprintf("%02d:%02d:%02d", nums[0], nums[1], nums[2])), nil
}

// String возвращает каноничное представление HH:MM:SS
func (t TimeString) String() string {
	return string(t)
}

// HHMM возвращает время с точностью до минуты (HH:MM)
func (t TimeString) HHMM() string {
	if len(t) < 5 {
		return string(t)
	}
	return string(t[:5])
}

// IsZero проверяет, что значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет, что значение находится в каноничной форме
func (t TimeString) Validate() error {
	normalized, err := NewTimeStringFromString(string(t))
	if err != nil {
		return err
	}
	if normalized != t {
		return fmt.Errorf("%w: %q is not canonical", ErrInvalidTimeString, string(t))
	}
	return nil
}

// EqualMinute сравнивает два времени с точностью до минуты, игнорируя секунды
func (t TimeString) EqualMinute(other TimeString) bool {
	return t.HHMM() == other.HHMM()
}

// IsBefore проверяет, что время строго раньше other.
// Каноничная форма HH:MM:SS сравнивается лексикографически.
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter проверяет, что время строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// AddMinutes возвращает время, сдвинутое на minutes минут вперед.
// Возвращает ошибку при выходе за границы суток.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	normalized, err := NewTimeStringFromString(string(t))
	if err != nil {
		return "", err
	}

	h, _ := strconv.Atoi(string(normalized[0:2]))
	m, _ := strconv.Atoi(string(normalized[3:5]))

	total := h*60 + m + minutes
	if total < 0 || total >= 24*60 {
		return "", fmt.Errorf("%w: %q + %d minutes is out of day range", ErrInvalidTimeString, string(t), minutes)
	}

	return TimeString(fmt.Sprintf("%02d:%02d:%02d", total/60, total%60, 0)), nil
}

// Scan реализует sql.Scanner: колонки TIME приходят от драйвера как строка,
// []byte или time.Time в зависимости от настроек
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		normalized, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = normalized
		return nil
	case []byte:
		normalized, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = normalized
		return nil
	case time.Time:
		*t = TimeString(fmt.Sprintf("%02d:%02d:%02d", v.Hour(), v.Minute(), v.Second()))
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	return string(t), nil
}

// MarshalJSON сериализует время как строку
func (t TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON десериализует и нормализует время
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = ""
		return nil
	}
	normalized, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = normalized
	return nil
}
