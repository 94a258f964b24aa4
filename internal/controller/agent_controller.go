package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"elecciones-rag-be/internal/dto"
	"elecciones-rag-be/internal/pkg/serverutils"
	"elecciones-rag-be/internal/service"
	"elecciones-rag-be/pkg/rag/graph"
	"elecciones-rag-be/pkg/store"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	AskStream(ctx *fiber.Ctx) error
	Parties(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type agentController struct {
	agentService    service.IAgentService
	feedbackService service.IFeedbackService
}

func NewAgentController(agentService service.IAgentService, feedbackService service.IFeedbackService) IAgentController {
	return &agentController{
		agentService:    agentService,
		feedbackService: feedbackService,
	}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/api")
	h.Post("/ask", c.Ask)
	h.Post("/ask/stream", c.AskStream)
	h.Get("/parties", c.Parties)
	h.Post("/feedback", c.Feedback)
}

func (c *agentController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.agentService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

// sseEvent frames for the streaming endpoint. The metadata payload is
// flattened into the event object rather than nested under a data key.
type sseStart struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
}

type sseToken struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type sseMetadata struct {
	Type       string             `json:"type"`
	Sources    []store.Source     `json:"sources"`
	AgentTrace graph.TraceSummary `json:"agent_trace"`
	SessionID  string             `json:"session_id,omitempty"`
	TraceID    string             `json:"trace_id,omitempty"`
}

type sseDone struct {
	Type string `json:"type"`
}

type sseError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (c *agentController) AskStream(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The fiber context is recycled once the handler returns, so the
	// stream writer runs against a detached context.
	events := c.agentService.AskStream(context.Background(), &req)
	sessionID := req.SessionID

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		writeSSE(w, sseStart{Type: "start", SessionID: sessionID})

		for ev := range events {
			switch ev.Type {
			case graph.EventToken:
				writeSSE(w, sseToken{Type: "token", Content: ev.Content})
			case graph.EventMetadata:
				if ev.Metadata == nil {
					continue
				}
				writeSSE(w, sseMetadata{
					Type:       "metadata",
					Sources:    ev.Metadata.Sources,
					AgentTrace: ev.Metadata.AgentTrace,
					SessionID:  ev.Metadata.SessionID,
					TraceID:    ev.Metadata.TraceID,
				})
			}
		}

		writeSSE(w, sseDone{Type: "done"})
	}))

	return nil
}

func writeSSE(w *bufio.Writer, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		data, _ = json.Marshal(sseError{Type: "error", Message: err.Error()})
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	w.Flush()
}

func (c *agentController) Parties(ctx *fiber.Ctx) error {
	return ctx.JSON(c.agentService.Parties())
}

func (c *agentController) Feedback(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.feedbackService.Submit(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Feedback recibido", fiber.Map{"trace_id": req.TraceID}))
}

func (c *agentController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.agentService.Health())
}
