package get_client

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/Realty-BookingService/internal/api/handlers"
	"github.com/m04kA/Realty-BookingService/internal/service/clients"
)

const (
	msgInvalidClientID = "el ID del cliente no es válido"
	msgNotFound        = "el cliente no existe"
)

type Handler struct {
	service ClientService
	logger  Logger
}

func NewHandler(service ClientService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clients/{clientId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(mux.Vars(r)["clientId"])
	if err != nil {
		h.logger.Warn("GET /clients/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	client, err := h.service.GetByID(r.Context(), clientID)
	if err != nil {
		if errors.Is(err, clients.ErrClientNotFound) {
			h.logger.Warn("GET /clients/{id} - Not found: client_id=%s", clientID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /clients/{id} - Failed: client_id=%s, error=%v", clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, client)
}
