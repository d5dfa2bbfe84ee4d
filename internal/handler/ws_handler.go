package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bunkmate/bunkmate-backend/internal/config"
	ws "github.com/bunkmate/bunkmate-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams subject change events to connected clients.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// SubjectStream godoc
// WS /ws/v1/subjects/stream
// Upgrades to WebSocket and forwards every subject create/update/delete event,
// as published on the redis pub/sub channel by the service layer.
func (h *WSHandler) SubjectStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	sub := h.rdb.Subscribe(ctx, config.CacheKey.SubjectEventsChannel())
	defer sub.Close()

	wsLog := h.log.With().Str("remote", conn.RemoteAddr().String()).Logger()
	wsLog.Info().Msg("Client connected")

	// Single writer goroutine: gorilla connections do not support concurrent
	// writes, so replies from the read loop are routed through a channel too.
	events := sub.Channel()
	outbound := make(chan interface{}, 4)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case msg, ok := <-events:
				if !ok {
					return
				}
				resp := ws.SubjectChangedResponse{
					Event:   ws.EventSubject,
					Payload: json.RawMessage(msg.Payload),
				}
				if err := ws.WriteTyped(conn, resp); err != nil {
					wsLog.Debug().Err(err).Msg("Event write failed")
					return
				}
			case reply, ok := <-outbound:
				if !ok {
					return
				}
				if err := ws.WriteTyped(conn, reply); err != nil {
					return
				}
			}
		}
	}()

	for {
		var msg ws.Request
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		var reply interface{}
		switch msg.Action {
		case ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
		}
		select {
		case outbound <- reply:
		default:
		}
	}

	close(outbound)
	sub.Close()
	<-done
	wsLog.Info().Msg("Client disconnected")
}
