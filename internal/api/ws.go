package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/coderefine/coderefine/internal/engine"
	"github.com/coderefine/coderefine/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgSubmit = "submit"
	wsMsgProbe  = "probe"
)

// WebSocket message types to client.
const (
	wsMsgState = "state"
	wsMsgError = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsStateResponse is pushed after every engine transition.
type wsStateResponse struct {
	State      string              `json:"state"`
	LastError  string              `json:"last_error,omitempty"`
	LastResult *model.ReviewResult `json:"last_result,omitempty"`
	Bridge     string              `json:"bridge"`
	Probed     bool                `json:"probed"`
	Log        []wsLogEntry        `json:"log"`
}

type wsLogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// wsSession ties one connection to its own engine. The engine is the single
// writer for request state; the session only relays snapshots.
type wsSession struct {
	conn    *websocket.Conn
	eng     *engine.Engine
	writeMu sync.Mutex
	logger  *zap.Logger
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sess := &wsSession{
		conn:   conn,
		eng:    engine.New(s.client, engine.Config{Logger: s.logger}),
		logger: s.logger,
	}

	done := make(chan struct{})
	go sess.pushTransitions(done)
	defer close(done)

	sess.sendState()
	sess.readLoop()
}

func (ws *wsSession) readLoop() {
	for {
		_, data, err := ws.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			ws.sendError("invalid message: " + err.Error())
			continue
		}

		switch msg.Type {
		case wsMsgSubmit:
			var req analyzeRequest
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				ws.sendError("invalid submit payload: " + err.Error())
				continue
			}
			mreq, err := req.toModel()
			if err != nil {
				ws.sendError(err.Error())
				continue
			}
			ws.eng.Submit(mreq)

		case wsMsgProbe:
			ws.eng.ProbeBridge()

		default:
			ws.sendError("unknown message type: " + msg.Type)
		}
	}
}

// pushTransitions relays every engine transition to the client until the
// read loop ends.
func (ws *wsSession) pushTransitions(done <-chan struct{}) {
	for {
		select {
		case <-ws.eng.Notify():
			ws.sendState()
		case <-done:
			return
		}
	}
}

func (ws *wsSession) sendState() {
	snap := ws.eng.Snapshot()

	bridge := "cloud-only"
	if snap.BridgeOnline {
		bridge = "hybrid"
	}

	resp := wsStateResponse{
		State:      snap.State.String(),
		LastError:  snap.LastError,
		LastResult: snap.LastResult,
		Bridge:     bridge,
		Probed:     snap.Probed,
	}
	for _, e := range snap.Log {
		resp.Log = append(resp.Log, wsLogEntry{Time: e.Time, Level: e.Level.String(), Message: e.Message})
	}

	ws.send(wsMsgState, resp)
}

func (ws *wsSession) sendError(msg string) {
	ws.send(wsMsgError, map[string]string{"message": msg})
}

func (ws *wsSession) send(msgType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		ws.logger.Error("websocket marshal error", zap.Error(err))
		return
	}

	ws.writeMu.Lock()
	defer ws.writeMu.Unlock()
	if err := ws.conn.WriteJSON(wsMessage{Type: msgType, Data: data}); err != nil {
		ws.logger.Debug("websocket write failed", zap.Error(err))
	}
}
