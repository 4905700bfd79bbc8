package gateway

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/orchestration"
)

var wsTracer = otel.Tracer("websocket-stream")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking for production
		return true
	},
}

// completeFrame is the terminal frame carrying the full run result.
type completeFrame struct {
	Type      string            `json:"type"`
	Success   bool              `json:"success"`
	Result    *models.RunResult `json:"result"`
	Timestamp time.Time         `json:"timestamp"`
}

// StreamGenerate handles WebSocket /api/generate/stream
// @Summary Stream a generation run
// @Description WebSocket endpoint: the client sends one generation request as JSON, then receives progress events and a terminal complete frame
// @Tags generate
// @Success 101 "Switching Protocols"
// @Router /generate/stream [get]
func (h *Handler) StreamGenerate(c *gin.Context) {
	ctx, span := wsTracer.Start(c.Request.Context(), "websocket.stream_generate")
	defer span.End()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		span.RecordError(err)
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	var req GenerateRequest
	if err := conn.ReadJSON(&req); err != nil {
		span.RecordError(err)
		log.Printf("Failed to read stream request: %v", err)
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInvalidFramePayloadData, "invalid request"))
		return
	}
	if req.Message == "" {
		conn.WriteJSON(models.ErrorResponse{Error: "message is required", Code: models.ErrCodeInvalidRequest})
		return
	}

	span.SetAttributes(attribute.String("conversation_id", req.ConversationID))

	// Writes come from the run loop and from this handler; gorilla allows
	// only one concurrent writer per connection.
	var writeMu sync.Mutex
	send := func(v interface{}) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(v); err != nil {
			log.Printf("WebSocket write error: %v", err)
		}
	}

	send(models.ProgressEvent{
		Type:      models.EventRouter,
		Message:   "Analyzing your request...",
		Timestamp: time.Now().UTC(),
	})

	sink := orchestration.SinkFunc(func(event models.ProgressEvent) {
		send(event)
	})

	result := h.orchestrator.Process(ctx, orchestration.ProcessRequest{
		Message:        req.Message,
		ConversationID: req.ConversationID,
		MaxIterations:  req.MaxIterations,
		Sink:           sink,
	})

	send(models.ProgressEvent{
		Type:       models.EventClassification,
		TaskType:   result.TaskType,
		Confidence: result.Confidence,
		Timestamp:  time.Now().UTC(),
	})

	send(completeFrame{
		Type:      models.EventComplete,
		Success:   result.Success,
		Result:    result,
		Timestamp: time.Now().UTC(),
	})

	log.Printf("WebSocket stream finished for conversation %s", result.ConversationID)
}
