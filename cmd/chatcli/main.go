package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Interactive console client for the chat API. One process is one
// session; pass a session id as the first argument to resume.

const defaultBaseURL = "http://localhost:3000/api"

type sendChatRequest struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message"`
}

type sendChatResponse struct {
	Data struct {
		Content   string   `json:"content"`
		Grounded  bool     `json:"grounded"`
		SourceIds []string `json:"source_ids"`
	} `json:"data"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func main() {
	baseURL := defaultBaseURL
	if env := os.Getenv("CHAT_API_BASE_URL"); env != "" {
		baseURL = env
	}

	sessionId := uuid.NewString()
	if len(os.Args) > 1 {
		sessionId = os.Args[1]
	}

	color.Cyan("Catalog chat console")
	color.Cyan("Session: %s (Ctrl-D to quit)\n", sessionId)

	client := &http.Client{Timeout: 2 * time.Minute}
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		start := time.Now()
		reply, err := sendChat(client, baseURL, sessionId, text)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("error: %v", err)
			continue
		}

		if reply.Data.Grounded {
			color.Green("assistant (grounded, %d sources, %s):", len(reply.Data.SourceIds), elapsed.Round(time.Millisecond))
		} else {
			color.Yellow("assistant (fallback, %s):", elapsed.Round(time.Millisecond))
		}
		fmt.Println(reply.Data.Content)
	}
}

func sendChat(client *http.Client, baseURL, sessionId, message string) (*sendChatResponse, error) {
	payload, err := json.Marshal(sendChatRequest{
		SessionId: sessionId,
		Message:   message,
	})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(baseURL+"/chat/v1", "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed sendChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("bad response (%s): %s", resp.Status, string(body))
	}
	if !parsed.Success {
		return nil, fmt.Errorf("%s (%s)", parsed.Message, resp.Status)
	}
	return &parsed, nil
}
