package get_property

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/Realty-BookingService/internal/api/handlers"
	"github.com/m04kA/Realty-BookingService/internal/service/properties"
)

const (
	msgInvalidPropertyID = "el ID del inmueble no es válido"
	msgNotFound          = "el inmueble no existe"
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

// Handle GET /api/v1/properties/{propertyId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	propertyID, err := uuid.Parse(mux.Vars(r)["propertyId"])
	if err != nil {
		h.logger.Warn("GET /properties/{id} - Invalid property ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPropertyID)
		return
	}

	property, err := h.service.GetByID(r.Context(), propertyID)
	if err != nil {
		if errors.Is(err, properties.ErrPropertyNotFound) {
			h.logger.Warn("GET /properties/{id} - Not found: property_id=%s", propertyID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /properties/{id} - Failed: property_id=%s, error=%v", propertyID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, property)
}
