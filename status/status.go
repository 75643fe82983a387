// Package status pushes engine events (command results, persistence
// progress, errors) to connected UI clients over websockets. One global hub,
// clients come and go; the latest event is replayed to newcomers.
package status

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	INFO = iota
	ERROR
	COMMAND
	PERSIST
)

type event struct {
	Message   string    `json:"message"`
	Time      time.Time `json:"time"`
	Type      int       `json:"type"`
	Command   string    `json:"command,omitempty"`
	Component string    `json:"componentId,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

var broadcast chan *event
var clients map[*client]bool
var hubLock sync.Mutex
var lastMessage []byte

func registerClient(c *client) {
	hubLock.Lock()
	defer hubLock.Unlock()
	clients[c] = true
	if lastMessage != nil {
		c.send <- lastMessage
	}
}

func unregisterClient(c *client) {
	hubLock.Lock()
	defer hubLock.Unlock()
	delete(clients, c)
}

func init() {
	broadcast = make(chan *event, 16)
	clients = make(map[*client]bool)
	go func() {
		for e := range broadcast {
			data, err := json.Marshal(e)
			if err != nil {
				log.Printf("[status] event marshal error: %v", err)
				continue
			}
			hubLock.Lock()
			lastMessage = data
			for c := range clients {
				select {
				case c.send <- data:
				default: // slow client, drop the event
				}
			}
			hubLock.Unlock()
		}
	}()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades an HTTP request to a status event stream.
func Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[status] ws upgrade error: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 32)}
	registerClient(c)
	go c.writePump()
}

func post(e *event) {
	select {
	case broadcast <- e:
	default: // hub congested, events are advisory
	}
}

func Info(format string, a ...interface{}) {
	post(&event{Message: fmt.Sprintf(format, a...), Time: time.Now(), Type: INFO})
}

func Error(format string, a ...interface{}) {
	post(&event{Message: fmt.Sprintf(format, a...), Time: time.Now(), Type: ERROR})
}

// CommandApplied reports one successfully applied scene command.
func CommandApplied(command, componentID string) {
	post(&event{
		Message:   fmt.Sprintf("applied %s", command),
		Time:      time.Now(),
		Type:      COMMAND,
		Command:   command,
		Component: componentID,
	})
}

// PersistDone reports a completed document write for a project.
func PersistDone(projectID string) {
	post(&event{
		Message: fmt.Sprintf("project %s saved", projectID),
		Time:    time.Now(),
		Type:    PERSIST,
	})
}
