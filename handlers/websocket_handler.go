package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/poker-club/livefeed"
	"github.com/Dosada05/poker-club/services"
	"github.com/gorilla/websocket"
)

const MessageStandingsSnapshot = "STANDINGS_SNAPSHOT"

type WebSocketHandler struct {
	hub           *livefeed.Hub
	ledgerService services.LedgerService
	upgrader      websocket.Upgrader
}

// NewWebSocketHandler принимает соединения с allowedOrigins; "*" разрешает любые.
func NewWebSocketHandler(hub *livefeed.Hub, ls services.LedgerService, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		ledgerService: ls,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// ServeWs подключает зрителя к комнате турнира: /ws/tournaments/{name}.
// Первым сообщением клиент получает текущую таблицу.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	name, err := tournamentNameParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.ledgerService.GetStandings(r.Context(), name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой.
		slog.WarnContext(r.Context(), "websocket upgrade failed", slog.String("tournament", name), slog.Any("error", err))
		return
	}

	room := livefeed.TournamentRoom(name)
	client := livefeed.NewClient(h.hub, conn, room)
	client.Enqueue(livefeed.Message{Type: MessageStandingsSnapshot, Payload: standings, RoomID: room})
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}
