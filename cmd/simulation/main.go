package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:8000"

// Simplified DTOs for the script
type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

type askResponse struct {
	Answer  string `json:"answer"`
	Sources []struct {
		Party string `json:"party"`
	} `json:"sources"`
	AgentTrace *struct {
		Intent          string   `json:"intent"`
		PartiesDetected []string `json:"parties_detected"`
		ChunksRetrieved int      `json:"chunks_retrieved"`
		Steps           []string `json:"steps"`
	} `json:"agent_trace"`
	TraceID string `json:"trace_id"`
}

type streamEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func main() {
	header := color.New(color.FgCyan, color.Bold)
	header.Println("=== Agente Electoral Simulation Client ===")

	questions := []string{
		"¿Qué propone el PLN en educación?",
		"¿Quién es el candidato del Frente Amplio?",
		"Compara las propuestas de seguridad del PLN y el PUSC",
		"¿Cuáles partidos participan en las elecciones?",
	}

	sessionID := fmt.Sprintf("sim-%d", time.Now().Unix())

	for _, q := range questions {
		color.Yellow("\nUSER: %s", q)

		start := time.Now()
		res, err := ask(q, sessionID)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Error: %v", err)
			continue
		}

		color.Green("AI (%v): %s", elapsed.Round(time.Millisecond), res.Answer)
		if res.AgentTrace != nil {
			color.White("  intent=%s parties=%v chunks=%d",
				res.AgentTrace.Intent, res.AgentTrace.PartiesDetected, res.AgentTrace.ChunksRetrieved)
			for _, step := range res.AgentTrace.Steps {
				color.HiBlack("    - %s", step)
			}
		}

		time.Sleep(1 * time.Second)
	}

	// Streaming round to exercise the SSE endpoint
	color.Yellow("\nUSER (stream): ¿Qué propone el PUSC en salud?")
	if err := askStream("¿Qué propone el PUSC en salud?", sessionID); err != nil {
		color.Red("Stream error: %v", err)
	}
}

func ask(question, sessionID string) (*askResponse, error) {
	body, _ := json.Marshal(askRequest{Question: question, SessionID: sessionID})

	resp, err := http.Post(baseURL+"/api/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var res askResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func askStream(question, sessionID string) error {
	body, _ := json.Marshal(askRequest{Question: question, SessionID: sessionID})

	resp, err := http.Post(baseURL+"/api/ask/stream", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	green := color.New(color.FgGreen)
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			log.Printf("bad event: %v", err)
			continue
		}

		switch ev.Type {
		case "token":
			green.Print(ev.Content)
		case "done":
			fmt.Println()
			color.Cyan("[stream closed]")
		}
	}
	return scanner.Err()
}
