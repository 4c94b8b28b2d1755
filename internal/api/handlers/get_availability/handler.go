package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/Realty-BookingService/internal/api/handlers"
	getAvailability "github.com/m04kA/Realty-BookingService/internal/usecase/get_availability"
)

const (
	msgInvalidQuery = "los parámetros de consulta no son válidos"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := parseQuery(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /availability - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, getAvailability.ErrInvalidInput) {
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		h.logger.Error("GET /availability - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /availability - Returned %d days for agent=%s", len(result.Days), result.AgentID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
