package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"waypoint/internal/domain"
)

const (
	writeWait = 10 * time.Second

	// subscriberBuffer is the number of locations queued for a slow client
	// before its connection is dropped.
	subscriberBuffer = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// locationMessage is sent to websocket subscribers on every location change.
type locationMessage struct {
	Location domain.Location     `json:"location"`
	Route    *domain.MatchResult `json:"route,omitempty"`
}

// subscribeHandler handles GET /_router/subscribe. It streams the current
// location, then every later one exactly once, until the client goes away.
func (s *Server) subscribeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			s.logger.WithError(err).Warn("Websocket upgrade failed")
			return
		}
		defer ws.Close()

		updates := make(chan domain.Location, subscriberBuffer)
		overflow := make(chan struct{})
		var once sync.Once

		initial, unsubscribe := s.router.Watch(func(loc domain.Location) {
			select {
			case updates <- loc:
			default:
				once.Do(func() { close(overflow) })
			}
		})
		defer unsubscribe()

		// The read loop only notices the client closing the connection.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if err := s.writeLocation(ws, initial); err != nil {
			return
		}

		for {
			select {
			case loc := <-updates:
				if err := s.writeLocation(ws, loc); err != nil {
					s.logger.WithError(err).Debug("Websocket write failed")
					return
				}
			case <-overflow:
				s.logger.Warn("Websocket subscriber too slow, closing")
				return
			case <-closed:
				return
			}
		}
	}
}

func (s *Server) writeLocation(ws *websocket.Conn, loc domain.Location) error {
	msg := locationMessage{Location: loc}
	if match, ok := s.router.Resolve(loc.URL); ok {
		msg.Route = &match
	}
	if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return ws.WriteJSON(msg)
}
