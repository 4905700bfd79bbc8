// Command runctl submits a generation request to a running orchestrator,
// either as a single blocking call or as a streamed run over WebSocket.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/clawworks/agent-platform/agent-orchestrator/internal/gateway"
	"github.com/clawworks/agent-platform/agent-orchestrator/internal/models"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "Orchestrator base URL")
	message := flag.String("message", "", "Request to send (required)")
	conversation := flag.String("conversation", "", "Conversation ID (optional)")
	iterations := flag.Int("iterations", 0, "Maximum iterations (0 = server default)")
	stream := flag.Bool("stream", false, "Stream progress events over WebSocket")
	flag.Parse()

	// Initialize OpenTelemetry for observability
	if err := initTracer(); err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}

	if strings.TrimSpace(*message) == "" {
		log.Fatal("Validation error: -message is required")
	}

	req := gateway.GenerateRequest{
		Message:        *message,
		ConversationID: *conversation,
		MaxIterations:  *iterations,
	}

	var result *models.RunResult
	var err error
	if *stream {
		result, err = runStreamed(*server, req)
	} else {
		result, err = runBlocking(*server, req)
	}
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	printResult(result)
}

func runBlocking(server string, req gateway.GenerateRequest) (*models.RunResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Minute}
	resp, err := client.Post(server+"/api/generate", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("orchestrator returned %d: %s", resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("orchestrator returned status %d", resp.StatusCode)
	}

	var result models.RunResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &result, nil
}

func runStreamed(server string, req gateway.GenerateRequest) (*models.RunResult, error) {
	wsURL := strings.Replace(server, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL += "/api/generate/stream"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	for {
		var frame map[string]json.RawMessage
		if err := conn.ReadJSON(&frame); err != nil {
			return nil, fmt.Errorf("stream closed unexpectedly: %w", err)
		}

		var frameType string
		if raw, ok := frame["type"]; ok {
			json.Unmarshal(raw, &frameType)
		}

		if frameType == models.EventComplete {
			var result models.RunResult
			if raw, ok := frame["result"]; ok {
				if err := json.Unmarshal(raw, &result); err != nil {
					return nil, fmt.Errorf("failed to decode result frame: %w", err)
				}
			}
			return &result, nil
		}

		printEvent(frame, frameType)
	}
}

func printEvent(frame map[string]json.RawMessage, frameType string) {
	var message string
	if raw, ok := frame["message"]; ok {
		json.Unmarshal(raw, &message)
	}
	if message == "" {
		message = frameType
	}
	log.Printf("[%s] %s", frameType, message)
}

func printResult(result *models.RunResult) {
	if result.Success {
		log.Printf("✓ Run succeeded")
	} else {
		log.Printf("✗ Run failed: %s", result.Error)
	}
	log.Printf("  Conversation: %s", result.ConversationID)
	log.Printf("  Task type: %s (confidence %.2f)", result.TaskType, result.Confidence)
	if result.ProjectType != "" {
		log.Printf("  Project: %s (%s), %d files", result.ProjectType, result.Language, len(result.Files))
	}
	if result.ServerRunning {
		log.Printf("  Server: %s", result.ServerURL)
	}
	if result.Response != "" {
		log.Printf("  %s", result.Response)
	}
	log.Printf("  Iterations: %d", result.Metadata.TotalIterations)
}

// initTracer initializes OpenTelemetry tracing
func initTracer() error {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)

	return nil
}
