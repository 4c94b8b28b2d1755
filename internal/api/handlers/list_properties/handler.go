package list_properties

import (
	"errors"
	"net/http"

	"github.com/m04kA/Realty-BookingService/internal/api/handlers"
	"github.com/m04kA/Realty-BookingService/internal/service/properties"
)

const (
	msgInvalidQuery = "los parámetros de consulta no son válidos"
)

type Handler struct {
	service PropertyService
	logger  Logger
}

func NewHandler(service PropertyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/properties
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var operationType *string
	if raw := r.URL.Query().Get("operationType"); raw != "" {
		operationType = &raw
	}

	result, err := h.service.List(r.Context(), operationType)
	if err != nil {
		if errors.Is(err, properties.ErrInvalidInput) {
			h.logger.Warn("GET /properties - Invalid query: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		h.logger.Error("GET /properties - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
