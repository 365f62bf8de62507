// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relabs-tech/cockpit_info/internal/logchan"
	"github.com/relabs-tech/cockpit_info/internal/pipeline"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// logToggler is satisfied by *pipeline.Queue.
type logToggler interface {
	SetLogging(ctx context.Context, ch pipeline.Channel, enabled bool) error
}

// channelView is the latest state of one channel as served to browsers.
type channelView struct {
	Text    string `json:"text"`
	Logging bool   `json:"logging"`
	Label   string `json:"label"` // "Logging" / "Not Logging"
}

// wsFrame is pushed to every websocket client on each update.
type wsFrame struct {
	Type    string `json:"type"` // "display" or "log_state"
	Channel string `json:"channel"`
	Text    string `json:"text,omitempty"`
	Logging bool   `json:"logging"`
	Label   string `json:"label,omitempty"`
}

// wsCommand is accepted from websocket clients.
type wsCommand struct {
	Action  string `json:"action"` // "log"
	Channel string `json:"channel"`
	Enabled bool   `json:"enabled"`
}

// webHub is a pipeline.Display that keeps the latest text per channel and
// pushes every change to connected websocket clients.
type webHub struct {
	mu      sync.RWMutex
	views   map[pipeline.Channel]channelView
	clients map[chan []byte]struct{}
}

func newWebHub() *webHub {
	h := &webHub{
		views:   make(map[pipeline.Channel]channelView),
		clients: make(map[chan []byte]struct{}),
	}
	for _, ch := range pipeline.Channels {
		h.views[ch] = channelView{Label: logchan.Closed.String()}
	}
	return h
}

func (h *webHub) Show(ch pipeline.Channel, text string) {
	h.mu.Lock()
	v := h.views[ch]
	v.Text = text
	h.views[ch] = v
	h.mu.Unlock()

	h.broadcast(wsFrame{Type: "display", Channel: ch.String(), Text: text, Logging: v.Logging})
}

func (h *webHub) LogState(ch pipeline.Channel, state logchan.State) {
	h.mu.Lock()
	v := h.views[ch]
	v.Logging = state == logchan.Open
	v.Label = state.String()
	h.views[ch] = v
	h.mu.Unlock()

	h.broadcast(wsFrame{Type: "log_state", Channel: ch.String(), Logging: v.Logging, Label: v.Label})
}

func (h *webHub) snapshot() map[string]channelView {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]channelView, len(h.views))
	for ch, v := range h.views {
		out[ch.String()] = v
	}
	return out
}

// broadcast never blocks the pipeline; a client that cannot keep up
// misses frames.
func (h *webHub) broadcast(f wsFrame) {
	payload, err := json.Marshal(f)
	if err != nil {
		log.Printf("web: frame marshal error: %v", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c <- payload:
		default:
		}
	}
}

func (h *webHub) subscribe() chan []byte {
	c := make(chan []byte, 16)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *webHub) unsubscribe(c chan []byte) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// newWebHandler serves the live display, the log toggles and metrics.
func newWebHandler(hub *webHub, toggler logToggler, gatherer prometheus.Gatherer, staticDir string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/display", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(hub.snapshot()); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	mux.HandleFunc("POST /api/log/{channel}", func(w http.ResponseWriter, r *http.Request) {
		ch, err := pipeline.ParseChannel(r.PathValue("channel"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		enabled, err := strconv.ParseBool(r.URL.Query().Get("enabled"))
		if err != nil {
			http.Error(w, "enabled must be true or false", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := toggler.SetLogging(ctx, ch, enabled); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(hub.snapshot()[ch.String()]); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, toggler, w, r)
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if staticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

func serveWS(hub *webHub, toggler logToggler, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	send := hub.subscribe()
	defer hub.unsubscribe(send)

	// Current state first, so a new page does not wait for the next tick.
	for _, ch := range pipeline.Channels {
		v := hub.snapshot()[ch.String()]
		if err := conn.WriteJSON(wsFrame{Type: "display", Channel: ch.String(), Text: v.Text, Logging: v.Logging, Label: v.Label}); err != nil {
			return
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var cmd wsCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("web: websocket read error: %v", err)
				}
				return
			}
			if cmd.Action != "log" {
				log.Printf("web: unknown websocket action %q", cmd.Action)
				continue
			}
			ch, err := pipeline.ParseChannel(cmd.Channel)
			if err != nil {
				log.Printf("web: %v", err)
				continue
			}
			// The resulting state comes back through LogState.
			if err := toggler.SetLogging(r.Context(), ch, cmd.Enabled); err != nil {
				log.Printf("web: %s log toggle failed: %v", ch, err)
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case msg := <-send:
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("web: websocket write error: %v", err)
				return
			}
		}
	}
}
