package bridge

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/huddleio/huddle/internal/app"
	"github.com/huddleio/huddle/internal/domain"
)

// Handler exposes the bridge over HTTP: the host-facing dial-out
// endpoint and the provider-facing callback webhook.
type Handler struct {
	Dialer *Dialer
	Coord  *app.Coordinator
}

type dialBody struct {
	To   string `json:"to"`
	Room string `json:"room"`
}

func (h *Handler) Dial(c *gin.Context) {
	var body dialBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}
	if body.To == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Destination number (to) is required."})
		return
	}

	callID, err := h.Dialer.Dial(c.Request.Context(), body.To, body.Room)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "No PSTN provider configured."})
			return
		}
		log.Error().Err(err).Str("module", "bridge").Str("to", body.To).Msg("dial failed")
		c.JSON(http.StatusBadGateway, gin.H{"message": "Dial failed."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "accepted", "call_id": callID})
}

type providerEvent struct {
	Event  string `json:"event"`
	CallID string `json:"call_id"`
	Room   string `json:"room"`
	To     string `json:"to"`
}

// ProviderCallback accepts the provider's POSTed event. Callbacks for
// rooms that no longer exist are acknowledged and dropped; nothing is
// retried either way.
func (h *Handler) ProviderCallback(c *gin.Context) {
	var ev providerEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}

	switch ev.Event {
	case "call-connected":
		delivered := h.Coord.CallConnected(domain.RoomID(ev.Room), ev.CallID, ev.To)
		log.Info().
			Str("module", "bridge").
			Str("call_id", ev.CallID).
			Str("room", ev.Room).
			Bool("delivered", delivered).
			Msg("provider callback")
	default:
		log.Warn().Str("module", "bridge").Str("event", ev.Event).Msg("unknown provider event")
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
