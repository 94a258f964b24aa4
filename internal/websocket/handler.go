package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"elecciones-rag-be/internal/dto"
	"elecciones-rag-be/internal/pkg/serverutils"
	"elecciones-rag-be/internal/service"
	"elecciones-rag-be/pkg/rag/graph"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// frame is the wire format for both directions. Inbound frames carry an ask
// request; outbound frames mirror the SSE event shapes.
type frame struct {
	Type       string              `json:"type"`
	Content    string              `json:"content,omitempty"`
	Message    string              `json:"message,omitempty"`
	SessionID  string              `json:"session_id,omitempty"`
	TraceID    string              `json:"trace_id,omitempty"`
	Sources    any                 `json:"sources,omitempty"`
	AgentTrace *graph.TraceSummary `json:"agent_trace,omitempty"`
}

// AskHandler streams agent answers over a websocket connection. Each inbound
// message is one question; the connection stays open across questions.
type AskHandler struct {
	agentService service.IAgentService
	logger       *log.Logger
}

func NewAskHandler(agentService service.IAgentService, logger *log.Logger) *AskHandler {
	return &AskHandler{
		agentService: agentService,
		logger:       logger,
	}
}

// Handle runs the read loop for one connection. It returns when the peer
// disconnects or a read error occurs.
func (h *AskHandler) Handle(conn *websocket.Conn) {
	defer conn.Close()

	var writeMu sync.Mutex
	write := func(f frame) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(f)
	}

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(conn, &writeMu, done)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Printf("[WS] Read error: %v", err)
			}
			return
		}

		var req dto.AskRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			write(frame{Type: "error", Message: "invalid request payload"})
			continue
		}
		if err := serverutils.ValidateRequest(req); err != nil {
			write(frame{Type: "error", Message: err.Error()})
			continue
		}

		if err := h.streamAnswer(&req, write); err != nil {
			return
		}
	}
}

func (h *AskHandler) streamAnswer(req *dto.AskRequest, write func(frame) error) error {
	if err := write(frame{Type: "start", SessionID: req.SessionID}); err != nil {
		return err
	}

	// Canceling releases the producer when a write fails and this loop
	// returns before the channel is drained.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := h.agentService.AskStream(ctx, req)
	for ev := range events {
		switch ev.Type {
		case graph.EventToken:
			if err := write(frame{Type: "token", Content: ev.Content}); err != nil {
				return err
			}
		case graph.EventMetadata:
			if ev.Metadata == nil {
				continue
			}
			trace := ev.Metadata.AgentTrace
			if err := write(frame{
				Type:       "metadata",
				Sources:    ev.Metadata.Sources,
				AgentTrace: &trace,
				SessionID:  ev.Metadata.SessionID,
				TraceID:    ev.Metadata.TraceID,
			}); err != nil {
				return err
			}
		}
	}

	return write(frame{Type: "done"})
}

func (h *AskHandler) pingLoop(conn *websocket.Conn, writeMu *sync.Mutex, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			writeMu.Unlock()
			if err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
