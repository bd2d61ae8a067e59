package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/c360/agentkit/check"
)

// writeWait bounds a single websocket write.
const writeWait = 2 * time.Second

// LogStream is a check.Sink that broadcasts log entries to connected
// websocket clients and forwards every entry to an optional next sink. A
// slow or broken client is dropped; logging never blocks on delivery.
type LogStream struct {
	next     check.Sink
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// streamEntry is the wire shape of one broadcast log entry.
type streamEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Severity  int       `json:"severity"`
	Message   string    `json:"message"`
}

// NewLogStream creates a log stream chaining to next. A nil next makes the
// stream a leaf sink.
func NewLogStream(next check.Sink) *LogStream {
	return &LogStream{
		next:  next,
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Log implements check.Sink.
func (l *LogStream) Log(level check.Level, msg string) {
	if l.next != nil {
		l.next.Log(level, msg)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.conns) == 0 {
		return
	}

	entry := streamEntry{
		Timestamp: time.Now().UTC(),
		Level:     level.String(),
		Severity:  int(level),
		Message:   msg,
	}
	for conn := range l.conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(entry); err != nil {
			conn.Close()
			delete(l.conns, conn)
		}
	}
}

// HandleLogs upgrades the request to a websocket and attaches the client to
// the broadcast set until it disconnects.
func (l *LogStream) HandleLogs(w http.ResponseWriter, r *http.Request) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return
	}

	l.mu.Lock()
	l.conns[conn] = struct{}{}
	l.mu.Unlock()

	// Read pump: clients send nothing, but reading is how we learn about
	// disconnects.
	go func() {
		defer l.detach(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// ClientCount returns the number of attached websocket clients.
func (l *LogStream) ClientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.conns)
}

// Close disconnects all attached clients.
func (l *LogStream) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for conn := range l.conns {
		conn.Close()
		delete(l.conns, conn)
	}
}

func (l *LogStream) detach(conn *websocket.Conn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	conn.Close()
	delete(l.conns, conn)
}
