package create_property

import (
	"errors"
	"net/http"

	"github.com/m04kA/Realty-BookingService/internal/api/handlers"
	"github.com/m04kA/Realty-BookingService/internal/service/properties"
	"github.com/m04kA/Realty-BookingService/internal/service/properties/models"
)

const (
	msgInvalidRequestBody = "el cuerpo de la solicitud no es válido"
	msgInvalidProperty    = "los datos del inmueble no son válidos"
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

// Handle POST /api/v1/properties
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePropertyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /properties - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	property, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, properties.ErrInvalidInput) {
			h.logger.Warn("POST /properties - Invalid property: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProperty)
			return
		}
		h.logger.Error("POST /properties - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /properties - Created property id=%s", property.ID)
	handlers.RespondJSON(w, http.StatusCreated, property)
}
