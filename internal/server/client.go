package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/NoahDarveau/MarkovMario/internal/engine"
	"github.com/NoahDarveau/MarkovMario/pkg/api"
	"github.com/NoahDarveau/MarkovMario/pkg/logger"
)

// WebSocket settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client connects one websocket to the level service. Every GenerateRequest read
// is answered with a LevelResponse or an ErrorResponse, in order.
type Client struct {
	Levels *engine.LevelService
	Conn   *websocket.Conn
	Send   chan any

	done chan struct{}
}

func NewClient(levels *engine.LevelService, conn *websocket.Conn) *Client {
	return &Client{
		Levels: levels,
		Conn:   conn,
		Send:   make(chan any, 16),
		done:   make(chan struct{}),
	}
}

// readPump reads requests until the connection drops.
func (c *Client) readPump() {
	log := logger.Log.WithField("remote", c.Conn.RemoteAddr().String())
	defer func() {
		close(c.Send)
		log.Info("Client disconnected")
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

	log.Info("Client connected")

	for {
		var req api.GenerateRequest
		if err := c.Conn.ReadJSON(&req); err != nil {
			if isDecodeError(err) {
				// Malformed request: report it and keep the connection.
				if !c.push(api.NewError(err)) {
					return
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("WS read error")
			}
			return
		}

		var msg any
		lvl, err := c.Levels.Generate(req)
		if err != nil {
			msg = api.NewError(err)
		} else {
			msg = lvl.Response()
			log.WithFields(logrus.Fields{
				"seed":    lvl.Report.Seed,
				"policy":  lvl.Report.Policy,
				"columns": lvl.Report.Columns,
			}).Debug("Level sent")
		}
		if !c.push(msg) {
			return
		}
	}
}

// feedPump streams every generated level to the client until it disconnects.
// Incoming messages are read and dropped so pongs and close frames are seen.
func (c *Client) feedPump(id string, updates <-chan api.LevelResponse) {
	log := logger.Log.WithField("subscriber", id)
	defer func() {
		c.Levels.Hub.Unregister(id)
		log.Info("Feed subscriber left")
	}()

	go func() {
		defer close(c.Send)
		for msg := range updates {
			if !c.push(msg) {
				return
			}
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	log.Info("Feed subscriber joined")
	for {
		if _, _, err := c.Conn.NextReader(); err != nil {
			return
		}
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

// push queues msg for the writer. It reports false once the writer is gone.
func (c *Client) push(msg any) bool {
	select {
	case c.Send <- msg:
		return true
	case <-c.done:
		return false
	}
}

// writePump sends queued messages and pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
