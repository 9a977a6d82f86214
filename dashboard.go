package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/elijahnyp/casa_controller/hw"
	"github.com/elijahnyp/casa_controller/state"
	"github.com/elijahnyp/casa_controller/util"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local network dashboard, no origin policy
	},
}

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Data interface{} `json:"data"`
	Type string      `json:"type"`
}

// StatusReport is the dashboard view of the controller.
type StatusReport struct {
	Toggles     map[state.Device]bool `json:"toggles"`
	Temperature float64               `json:"temperature"`
	Indicator   bool                  `json:"indicator"`
	FrontLight  bool                  `json:"front_light"`
	Timestamp   int64                 `json:"timestamp"`
}

// WSClient represents a connected WebSocket client
type WSClient struct {
	conn *websocket.Conn
	send chan WebSocketMessage
	hub  *WSHub
}

// WSHub maintains the set of active clients and broadcasts messages
type WSHub struct {
	clients    map[*WSClient]bool
	broadcast  chan WebSocketMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// NewHub creates a new WebSocket hub
func NewHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WebSocketMessage),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the WebSocket hub
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			util.Logger.Info().Msg("Client connected to WebSocket")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				util.Logger.Info().Msg("Client disconnected from WebSocket")
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// BroadcastUpdate sends an update to all connected clients
func (h *WSHub) BroadcastUpdate(messageType string, data interface{}) {
	select {
	case h.broadcast <- WebSocketMessage{Type: messageType, Data: data}:
	default:
		// Channel is full, skip this update
	}
}

// readPump pumps messages from the websocket connection to the hub
func (c *WSClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		if err := c.conn.Close(); err != nil {
			util.Logger.Error().Err(err).Msg("Error closing WebSocket connection")
		}
	}()

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *WSClient) writePump() {
	defer func() {
		if err := c.conn.Close(); err != nil {
			util.Logger.Error().Err(err).Msg("Error closing WebSocket connection")
		}
	}()

	for message := range c.send {
		if err := c.conn.WriteJSON(message); err != nil {
			return
		}
	}
	if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
		util.Logger.Error().Err(err).Msg("Error writing close message")
	}
}

// Dashboard exposes the read-only status surface on the monitor server.
// It borrows snapshots and never mutates the store.
type Dashboard struct {
	hub      *WSHub
	store    *state.Store
	temp     *hw.TemperatureReader
	presence *PresenceController
}

func NewDashboard(store *state.Store, temp *hw.TemperatureReader, presence *PresenceController) *Dashboard {
	d := &Dashboard{
		hub:      NewHub(),
		store:    store,
		temp:     temp,
		presence: presence,
	}
	go d.hub.Run()
	return d
}

func (d *Dashboard) report() StatusReport {
	snap := d.store.Snapshot()
	tempC, err := d.temp.ReadC()
	if err != nil {
		util.Logger.Debug().Msgf("dashboard temperature read failed: %v", err)
	}
	return StatusReport{
		Toggles:     snap.Toggles,
		Indicator:   snap.Indicator,
		Temperature: tempC,
		FrontLight:  d.presence.Active(),
		Timestamp:   time.Now().Unix(),
	}
}

// PushState broadcasts the current state to websocket clients. Called by
// the main loop whenever a request changed something.
func (d *Dashboard) PushState() {
	d.hub.BroadcastUpdate("status", d.report())
}

// APIStatus returns the controller status as JSON
func (d *Dashboard) APIStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(d.report()); err != nil {
		util.Logger.Error().Err(err).Msg("Error encoding status")
	}
}

// ServeWebSocket handles websocket requests from the peer
func (d *Dashboard) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		util.Logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSClient{
		conn: conn,
		send: make(chan WebSocketMessage, 256),
		hub:  d.hub,
	}

	client.hub.register <- client

	// greet the new client with the current state
	client.send <- WebSocketMessage{Type: "status", Data: d.report()}

	go client.writePump()
	go client.readPump()
}

// Register wires the dashboard endpoints onto the monitor server.
func (d *Dashboard) Register(monitor *util.MonitorServer) {
	monitor.AddHandler("/api/status", d.APIStatus)
	monitor.AddHandler("/ws", d.ServeWebSocket)
}
