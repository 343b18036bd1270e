package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

const baseURL = "http://localhost:3000"

// Simplified DTOs for the script
type initRequest struct {
	SessionId string `json:"sessionId"`
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionId string `json:"sessionId"`
}

type chatResponse struct {
	Success     bool   `json:"success"`
	Response    string `json:"response"`
	PaymentData *struct {
		Reference   string `json:"reference"`
		Amount      int64  `json:"amount"`
		OrderNumber string `json:"orderNumber"`
	} `json:"paymentData"`
}

func main() {
	sessionId := uuid.NewString()

	color.Cyan("=== Chat Ordering Smoke Client ===")
	color.Cyan("Session: %s\n", sessionId)

	reply, err := initChat(sessionId)
	if err != nil {
		log.Fatalf("init failed: %v", err)
	}
	color.Green("BOT:\n%s\n", reply.Response)

	// Browse mains, pick Jollof Rice, add two, view the cart, checkout.
	turns := []string{"1", "1", "2", "97", "99", "customer@example.com"}

	for _, text := range turns {
		color.Yellow("\nUSER: %s", text)

		start := time.Now()
		reply, err := sendMessage(sessionId, text)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Error: %v", err)
			continue
		}

		color.Green("BOT (%s):\n%s", elapsed.Round(time.Millisecond), reply.Response)
		if reply.PaymentData != nil {
			color.Magenta("PAYMENT: ref=%s amount=%d order=%s",
				reply.PaymentData.Reference,
				reply.PaymentData.Amount,
				reply.PaymentData.OrderNumber)
		}
	}
}

func initChat(sessionId string) (*chatResponse, error) {
	return post("/chat/init", initRequest{SessionId: sessionId})
}

func sendMessage(sessionId, text string) (*chatResponse, error) {
	return post("/chat", chatRequest{Message: text, SessionId: sessionId})
}

func post(path string, payload interface{}) (*chatResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := http.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, raw)
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
