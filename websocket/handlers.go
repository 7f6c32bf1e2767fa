package websocket

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/BBBSnowball/lwip-ftpd/internal/services"
	"github.com/BBBSnowball/lwip-ftpd/internal/types"
	"github.com/BBBSnowball/lwip-ftpd/vfs"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Sessions is the shared session manager, assigned from main before routes
// are built.
var Sessions *services.Manager

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Origins are not restricted; the session token is the gate.
		return true
	},
}

// Command is one client request on the socket.
type Command struct {
	Op   string `json:"op"`
	Path string `json:"path,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	// Data carries file bytes for write, base64-encoded.
	Data string `json:"data,omitempty"`
}

// Reply answers one Command. Ok false carries the error message; the other
// fields are filled per op.
type Reply struct {
	Ok    bool              `json:"ok"`
	Op    string            `json:"op,omitempty"`
	Error string            `json:"error,omitempty"`
	Cwd   string            `json:"cwd,omitempty"`
	Entry *types.EntryInfo  `json:"entry,omitempty"`
	Items []types.EntryInfo `json:"items,omitempty"`
	// Data carries file bytes for read, base64-encoded.
	Data  string `json:"data,omitempty"`
	Bytes int    `json:"bytes,omitempty"`
}

// HandleSessionSocket upgrades the request and serves commands against the
// session until the client goes away. Commands run in arrival order.
// Route: /api/sessions/:id/ws
func HandleSessionSocket(c *gin.Context) {
	sessionID := c.Param("id")
	if _, err := Sessions.Info(sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	sc := &SessionConn{SessionID: sessionID, Conn: conn}
	conns.add(sc)
	log.Printf("WebSocket connected to session %s", sessionID)

	go pingLoop(sc)
	go commandLoop(sc)
}

func commandLoop(sc *SessionConn) {
	defer conns.remove(sc)

	for {
		_, data, err := sc.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("WebSocket error on session %s: %v", sc.SessionID, err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			if sc.WriteJSON(Reply{Ok: false, Error: "invalid command: " + err.Error()}) != nil {
				return
			}
			continue
		}

		reply, err := runCommand(sc.SessionID, cmd)
		if sc.WriteJSON(reply) != nil {
			return
		}
		// The session is gone; no later command can succeed.
		if errors.Is(err, services.ErrUnknownSession) || errors.Is(err, vfs.ErrSessionClosed) {
			return
		}
	}
}

// runCommand executes one command against the session, serialized with all
// other users of the session.
func runCommand(sessionID string, cmd Command) (Reply, error) {
	reply := Reply{Ok: true, Op: cmd.Op}
	err := Sessions.With(sessionID, func(s *vfs.Session) error {
		switch cmd.Op {
		case "pwd":
			reply.Cwd = s.Getwd()
		case "cd":
			if err := s.Chdir(cmd.Path); err != nil {
				return err
			}
			reply.Cwd = s.Getwd()
		case "list":
			items, err := services.ListEntries(s, cmd.Path)
			if err != nil {
				return err
			}
			reply.Items = items
		case "stat":
			entry, err := services.StatEntry(s, cmd.Path)
			if err != nil {
				return err
			}
			reply.Entry = entry
		case "mkdir":
			return s.Mkdir(cmd.Path, 0755)
		case "rmdir":
			return s.Rmdir(cmd.Path)
		case "remove":
			return s.Remove(cmd.Path)
		case "rename":
			return s.Rename(cmd.From, cmd.To)
		case "read":
			data, err := services.ReadFile(s, cmd.Path)
			if err != nil {
				return err
			}
			reply.Data = base64.StdEncoding.EncodeToString(data)
			reply.Bytes = len(data)
		case "write":
			data, err := base64.StdEncoding.DecodeString(cmd.Data)
			if err != nil {
				return fmt.Errorf("invalid base64 data: %v", err)
			}
			if err := services.WriteFile(s, cmd.Path, data); err != nil {
				return err
			}
			reply.Bytes = len(data)
		default:
			return fmt.Errorf("unknown op %q", cmd.Op)
		}
		return nil
	})
	if err != nil {
		return Reply{Ok: false, Op: cmd.Op, Error: err.Error()}, err
	}
	return reply, nil
}

// pingLoop keeps the connection alive through idle proxies.
func pingLoop(sc *SessionConn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if sc.ping() != nil {
			return
		}
	}
}
