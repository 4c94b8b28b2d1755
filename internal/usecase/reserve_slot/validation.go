package reserve_slot

import (
	"strings"
	"time"

	"github.com/m04kA/Realty-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса.
// Собирает все проблемы сразу, чтобы клиент исправил форму за один заход.
func validateRequest(req *Request, now time.Time) error {
	issues := make([]FieldIssue, 0)

	name := strings.TrimSpace(req.ClientName)
	if len(name) < domain.MinClientNameLength {
		issues = append(issues, FieldIssue{
			Field:   "clientName",
			Message: "el nombre es demasiado corto",
		})
	}
	if len(name) > domain.MaxClientNameLength {
		issues = append(issues, FieldIssue{
			Field:   "clientName",
			Message: "el nombre es demasiado largo",
		})
	}

	if !isValidEmail(req.ClientEmail) {
		issues = append(issues, FieldIssue{
			Field:   "clientEmail",
			Message: "el correo electrónico no es válido",
		})
	}

	if !req.OperationType.IsValid() {
		issues = append(issues, FieldIssue{
			Field:   "operationType",
			Message: "el tipo de operación debe ser rent o buy",
		})
	}

	if strings.TrimSpace(req.BudgetRange) == "" {
		issues = append(issues, FieldIssue{
			Field:   "budgetRange",
			Message: "el presupuesto es obligatorio",
		})
	} else if len(req.BudgetRange) > domain.MaxBudgetLength {
		issues = append(issues, FieldIssue{
			Field:   "budgetRange",
			Message: "el presupuesto es demasiado largo",
		})
	}

	if req.Date.IsZero() {
		issues = append(issues, FieldIssue{
			Field:   "date",
			Message: "la fecha es obligatoria",
		})
	} else if isDateInPast(req.Date, now) {
		issues = append(issues, FieldIssue{
			Field:   "date",
			Message: "la fecha no puede estar en el pasado",
		})
	}

	if req.StartTime.IsZero() {
		issues = append(issues, FieldIssue{
			Field:   "time",
			Message: "la hora es obligatoria",
		})
	} else if err := req.StartTime.Validate(); err != nil {
		issues = append(issues, FieldIssue{
			Field:   "time",
			Message: "el formato de hora no es válido",
		})
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		issues = append(issues, FieldIssue{
			Field:   "notes",
			Message: "las notas son demasiado largas",
		})
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}

	return nil
}

// isValidEmail минимальная структурная проверка адреса.
// Полная RFC валидация не нужна: уникальность и доставляемость
// контролируются на других уровнях.
func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domainPart := email[at+1:]
	if strings.Contains(domainPart, "@") {
		return false
	}
	dot := strings.LastIndex(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
