package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/gin-gonic/gin"
)

// Event is a named payload delivered to a single user's open streams.
type Event struct {
	Name string      `json:"name"`
	Data interface{} `json:"data"`
}

type client struct {
	userID string
	ch     chan Event
}

// Manager fans events out to per-user SSE connections.
type Manager struct {
	mu         sync.RWMutex
	clients    map[string]map[*client]struct{}
	register   chan *client
	unregister chan *client
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run processes register/unregister requests. Call in its own goroutine.
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.mu.Lock()
			if m.clients[c.userID] == nil {
				m.clients[c.userID] = make(map[*client]struct{})
			}
			m.clients[c.userID][c] = struct{}{}
			m.mu.Unlock()
		case c := <-m.unregister:
			m.mu.Lock()
			if set, ok := m.clients[c.userID]; ok {
				if _, ok := set[c]; ok {
					delete(set, c)
					close(c.ch)
					if len(set) == 0 {
						delete(m.clients, c.userID)
					}
				}
			}
			m.mu.Unlock()
		}
	}
}

// SendToUser delivers an event to every open stream of the user.
// Slow consumers are skipped rather than blocked on.
func (m *Manager) SendToUser(userID, event string, data interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for c := range m.clients[userID] {
		select {
		case c.ch <- Event{Name: event, Data: data}:
		default:
		}
	}
}

// ServeHTTP streams events to the caller until the connection closes.
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	conn := &client{userID: userID, ch: make(chan Event, 16)}
	m.register <- conn
	defer func() { m.unregister <- conn }()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-conn.ch:
			if !ok {
				return false
			}
			payload, err := json.Marshal(ev.Data)
			if err != nil {
				return true
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
