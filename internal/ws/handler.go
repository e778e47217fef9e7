// Package ws exposes the live battle event stream over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"vv-api/internal/hub"
	"vv-api/internal/service"
	"vv-api/pkg/logger"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
)

const writeTimeout = 3 * time.Second

// Handler upgrades GET /api/battles/{battleId}/ws and streams battle
// events until the client disconnects. The subscription is read-only;
// mutations go through the REST endpoints.
func Handler(eventHub *hub.Hub, battleService service.BattleService, log *logger.Logger) http.HandlerFunc {
	log = log.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		battleID := chi.URLParam(r, "battleId")

		// Reject unknown battles before upgrading
		if _, err := battleService.Get(r.Context(), battleID); err != nil {
			http.Error(w, "battle not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			log.WithError(err).Debug("websocket upgrade failed")
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		sub := eventHub.Subscribe(battleID)
		defer eventHub.Unsubscribe(sub)

		// The client never sends application messages; CloseRead pumps
		// control frames and cancels the context on disconnect
		ctx := conn.CloseRead(r.Context())

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-sub.C:
				if !ok {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					log.WithError(err).Warn("failed to encode battle event")
					continue
				}
				writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
				err = conn.Write(writeCtx, websocket.MessageText, payload)
				cancel()
				if err != nil {
					return
				}
			}
		}
	}
}
