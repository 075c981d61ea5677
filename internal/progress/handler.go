package progress

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades an HTTP request to a websocket connection streaming
// one generation job's observability.Events, grounded in the teacher's
// websocket.Handler.
type Handler struct {
	hub    *Hub
	auth   Authenticator
	logger zerolog.Logger
}

func NewHandler(hub *Hub, auth Authenticator, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, auth: auth, logger: logger}
}

// ServeHTTP expects a "job" query parameter naming the generation job to
// watch; the rest of the request is authenticated by h.auth exactly as
// the teacher's handler authenticates before upgrading.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	viewerID, err := h.auth.Authenticate(r)
	if err != nil {
		h.logger.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("progress websocket authentication failed")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	jobID := r.URL.Query().Get("job")
	if jobID == "" {
		http.Error(w, "missing job query parameter", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("remote_addr", r.RemoteAddr).Msg("progress websocket upgrade failed")
		return
	}

	client := NewClient(uuid.New().String(), viewerID, jobID, h.hub, conn)
	h.logger.Info().Str("client_id", client.id).Str("viewer_id", viewerID).Str("job_id", jobID).Msg("progress client connected")
	client.Start()
}
