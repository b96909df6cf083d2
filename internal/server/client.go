package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Shimobouzi/FilmWorker/internal/engine"
	"github.com/Shimobouzi/FilmWorker/pkg/api"
	"github.com/Shimobouzi/FilmWorker/pkg/logger"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService
type Client struct {
	Game *engine.GameService
	Conn *websocket.Conn
	Send chan api.ServerResponse
	ID   string

	updates chan api.ServerResponse // Канал из хаба; снимается с учета только он
	done    chan struct{}           // Закрывается при выходе writePump
}

func NewClient(game *engine.GameService, conn *websocket.Conn) *Client {
	return &Client{
		Game: game,
		Conn: conn,
		Send: make(chan api.ServerResponse, 256),
		done: make(chan struct{}),
	}
}

// clientID берет токен из рукопожатия, если это валидный UUID, иначе выдает новый.
func clientID(token string) string {
	if id, err := uuid.Parse(token); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	log := logger.For("server")
	defer func() {
		if c.ID != "" {
			c.Game.Hub.Unregister(c.ID, c.updates)
			log.WithField("client_id", c.ID).Info("Client disconnected")
		} else {
			// Рукопожатия не было: writePump ждет закрытия Send
			close(c.Send)
		}
		if err := c.Conn.Close(); err != nil {
			log.WithError(err).Debug("failed to close websocket connection")
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE
	var hello api.ClientCommand
	if err := c.Conn.ReadJSON(&hello); err != nil {
		log.WithError(err).Warn("Handshake failed")
		return
	}
	c.ID = clientID(hello.Token)

	log.WithFields(logrus.Fields{
		"client_id": c.ID,
		"remote":    c.Conn.RemoteAddr().String(),
	}).Info("Client connected")

	// 2. ПОДПИСКА НА ОБНОВЛЕНИЯ
	c.updates = c.Game.Hub.Register(c.ID)

	// Запускаем пересылку обновлений из Hub в writePump
	go c.forward(c.updates)

	// Отправляем INIT (приветствие + первый снимок)
	c.submit(api.ClientCommand{Action: "INIT"})

	// 3. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Error("WS Error")
			}
			break
		}
		c.submit(cmd)
	}
}

// submit ставит команду в очередь движка; отказ сразу возвращается клиенту.
func (c *Client) submit(cmd api.ClientCommand) {
	cmd.Token = c.ID
	if err := c.Game.ProcessCommand(cmd); err != nil {
		c.Game.Hub.SendTo(c.ID, api.ServerResponse{
			Type: "ERROR",
			Logs: []api.LogEntry{{
				ID:        uuid.NewString(),
				Text:      err.Error(),
				Type:      "ERROR",
				Timestamp: time.Now().UnixMilli(),
			}},
		})
	}
}

// forward пересылает снимки из хаба в Send до закрытия updates.
// Если writePump уже вышел, пересылка прекращается, чтобы не висеть на полном Send.
func (c *Client) forward(updates <-chan api.ServerResponse) {
	for msg := range updates {
		select {
		case c.Send <- msg:
		case <-c.done:
			return
		}
	}
	close(c.Send)
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	log := logger.For("server")
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		close(c.done)
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
