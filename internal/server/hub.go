// Package server hosts game sessions over websockets and accepts score
// reports over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hersh/blockstack/internal/engine"
	"github.com/hersh/blockstack/internal/leaderboard"
	"github.com/hersh/blockstack/internal/player"
	"github.com/hersh/blockstack/internal/protocol"
)

type Hub struct {
	players  *player.Registry
	reporter engine.Reporter
	store    *leaderboard.FileStore
	apiKey   string
	logger   *log.Logger
	clock    func() time.Time
	timing   *engine.Timing
}

type Option func(*Hub)

// WithReporter receives the result of every hosted session.
func WithReporter(r engine.Reporter) Option {
	return func(h *Hub) { h.reporter = r }
}

// WithStore enables the /scores endpoints.
func WithStore(s *leaderboard.FileStore) Option {
	return func(h *Hub) { h.store = s }
}

// WithAPIKey requires X-Api-Key on POST /scores.
func WithAPIKey(key string) Option {
	return func(h *Hub) { h.apiKey = key }
}

func WithLogger(l *log.Logger) Option {
	return func(h *Hub) { h.logger = l }
}

// WithTiming overrides the engine tunables of hosted sessions.
func WithTiming(t engine.Timing) Option {
	return func(h *Hub) { h.timing = &t }
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{
		players: player.NewRegistry(),
		logger:  log.Default(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Players() *player.Registry {
	return h.players
}

func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/players", h.servePlayers)
	mux.HandleFunc(leaderboard.ScoresPath, h.serveScores)
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade error: %v", err)
		return
	}

	id := uuid.NewString()
	c := newConn(id, ws, h.logger)
	h.players.Add(id, "")
	h.logger.Printf("player %s connected (%d online)", id, h.players.Count())
	room := newRoom(id, c, h)

	c.send(protocol.Envelope{
		Type:    protocol.MsgAssignID,
		Payload: protocol.AssignIDPayload{PlayerID: id},
	})

	go c.writePump()
	go room.run()

	// Read pump (blocking)
	c.readPump(room.deliver)

	room.stop()
	c.close()
	p, _ := h.players.Get(id)
	h.players.Remove(id)
	h.logger.Printf("player %s (%s) disconnected (%d online)", p.Name, id, h.players.Count())
}

func (h *Hub) servePlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, protocol.ErrorResponse{Error: "method not allowed"})
		return
	}
	resp := protocol.ListPlayersResponse{Players: []protocol.PlayerInfo{}}
	for _, p := range h.players.All() {
		resp.Players = append(resp.Players, protocol.PlayerInfo{
			PlayerID: p.ID,
			Name:     p.Name,
			Mode:     p.Mode,
			State:    p.State,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Hub) serveScores(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, protocol.ErrorResponse{Error: "score store disabled"})
		return
	}
	switch r.Method {
	case http.MethodGet:
		top, err := h.store.Top(r.URL.Query().Get("mode"))
		if err != nil {
			h.logger.Printf("read scores: %v", err)
			writeJSON(w, http.StatusInternalServerError, protocol.ErrorResponse{Error: "read failed"})
			return
		}
		if top == nil {
			top = []leaderboard.Entry{}
		}
		writeJSON(w, http.StatusOK, top)

	case http.MethodPost:
		if h.apiKey != "" && r.Header.Get(leaderboard.APIKeyHeader) != h.apiKey {
			writeJSON(w, http.StatusUnauthorized, protocol.ErrorResponse{Error: "bad api key"})
			return
		}
		var res engine.Result
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize)).Decode(&res); err != nil {
			writeJSON(w, http.StatusBadRequest, protocol.ErrorResponse{Error: "invalid result"})
			return
		}
		err := h.store.Add(res)
		switch {
		case errors.Is(err, leaderboard.ErrInvalidResult):
			writeJSON(w, http.StatusUnprocessableEntity, protocol.ErrorResponse{Error: err.Error()})
		case err != nil:
			h.logger.Printf("save score: %v", err)
			writeJSON(w, http.StatusInternalServerError, protocol.ErrorResponse{Error: "save failed"})
		default:
			w.WriteHeader(http.StatusCreated)
		}

	default:
		writeJSON(w, http.StatusMethodNotAllowed, protocol.ErrorResponse{Error: "method not allowed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
