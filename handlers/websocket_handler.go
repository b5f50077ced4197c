package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/gorilla/websocket"
)

// EventBracketSnapshot is the first message a new watcher receives when the
// bracket already exists.
const EventBracketSnapshot = "BRACKET_SNAPSHOT"

type WebSocketHandler struct {
	hub            *brackets.Hub
	bracketService services.BracketService
	upgrader       websocket.Upgrader
	logger         *slog.Logger
}

// NewWebSocketHandler accepts connections from the given origins. An empty
// list allows every origin.
func NewWebSocketHandler(hub *brackets.Hub, bs services.BracketService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &WebSocketHandler{
		hub:            hub,
		bracketService: bs,
		logger:         logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// ServeWs subscribes the caller to live updates of one tournament.
// Clients connect to /ws/tournaments/{tournamentID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.bracketService.GetTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("failed to upgrade websocket connection",
			slog.String("tournament_id", tournamentID),
			slog.Any("error", err))
		return
	}

	roomID := brackets.RoomForTournament(tournamentID)
	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}

	if tournament.Bracket != nil {
		snapshot, err := json.Marshal(brackets.WebSocketMessage{
			Type: EventBracketSnapshot,
			Payload: services.BracketUpdatePayload{
				TournamentID: tournament.ID,
				Version:      tournament.Version,
				Bracket:      tournament.Bracket,
			},
			RoomID: roomID,
		})
		if err == nil {
			client.Send <- snapshot
		}
	}

	if !h.hub.Join(client) {
		h.logger.Warn("websocket hub is stopped, dropping connection", slog.String("tournament_id", tournamentID))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Info("websocket client joined", slog.String("room", roomID))
}
