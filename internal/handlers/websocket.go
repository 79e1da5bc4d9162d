package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"campus-arcade-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler pushes duel and lottery events to connected clients. One
// connection per username; a reconnect replaces the old socket.
type WebSocketHandler struct {
	hub *WebSocketHub
}

type WebSocketHub struct {
	clients    map[string]*websocket.Conn
	register   chan *Client
	unregister chan *Client
	send       chan *Message
}

type Client struct {
	Username string
	Conn     *websocket.Conn
}

type Message struct {
	Type     string      `json:"type"`
	Username string      `json:"-"`
	Data     interface{} `json:"data"`
}

func NewWebSocketHandler() *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[string]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		send:       make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	username := c.GetString("username")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		Username: username,
		Conn:     conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if msg.Type == "PING" {
			h.sendPong(client)
		}
	}
}

func (h *WebSocketHandler) sendPong(client *Client) {
	msg := Message{
		Type: "PONG",
		Data: gin.H{
			"timestamp": time.Now().Unix(),
		},
	}

	client.Conn.WriteJSON(msg)
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			if old, ok := hub.clients[client.Username]; ok {
				old.Close()
			}
			hub.clients[client.Username] = client.Conn

		case client := <-hub.unregister:
			if conn, ok := hub.clients[client.Username]; ok && conn == client.Conn {
				delete(hub.clients, client.Username)
			}

		case message := <-hub.send:
			// An empty username addresses every connected client.
			if message.Username == "" {
				for _, conn := range hub.clients {
					conn.WriteJSON(message)
				}
				continue
			}
			if conn, ok := hub.clients[message.Username]; ok {
				conn.WriteJSON(message)
			}
		}
	}
}

func (h *WebSocketHandler) push(username, msgType string, data interface{}) {
	select {
	case h.hub.send <- &Message{Type: msgType, Username: username, Data: data}:
	default:
		log.Printf("WebSocket send buffer full, dropping %s for %s", msgType, username)
	}
}

func (h *WebSocketHandler) broadcast(msgType string, data interface{}) {
	select {
	case h.hub.send <- &Message{Type: msgType, Data: data}:
	default:
		log.Printf("WebSocket send buffer full, dropping broadcast %s", msgType)
	}
}

// NotifyDuelInvite implements services.Broadcaster.
func (h *WebSocketHandler) NotifyDuelInvite(to, from string, stake int64) {
	h.push(to, "DUEL_INVITE", gin.H{
		"from":  from,
		"stake": stake,
	})
}

// NotifyDuelUpdate implements services.Broadcaster.
func (h *WebSocketHandler) NotifyDuelUpdate(username string, view *models.DuelView) {
	h.push(username, "DUEL_UPDATE", view)
}

// NotifyLotteryResult implements services.Broadcaster. The draw result goes
// to everyone; the winner additionally gets a targeted prize message.
func (h *WebSocketHandler) NotifyLotteryResult(winner string, prize int64) {
	h.broadcast("LOTTERY_RESULT", gin.H{
		"winner": winner,
		"prize":  prize,
	})
	h.push(winner, "LOTTERY_WIN", gin.H{
		"prize": prize,
	})
}
