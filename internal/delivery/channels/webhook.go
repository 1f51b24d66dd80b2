// Package channels - các kênh gửi notification ra ngoài.
package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookPayload payload chuẩn của webhook "tin nhắn mới từ khách"
type WebhookPayload struct {
	Event     string `json:"event"`
	ChatID    string `json:"chatId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	Text      string `json:"text"`
	At        int64  `json:"at"`
}

// Marshal serialize payload thành JSON body (dùng chung cho gửi và ký)
func (p *WebhookPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// SendWebhook POST body đến webhook URL, kèm chữ ký HMAC trong header
// X-Signature để bên nhận xác thực nguồn gửi.
func SendWebhook(ctx context.Context, webhookURL string, body []byte, signature string) error {
	req, err := http.NewRequestWithContext(ctx, "POST", webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Signature", signature)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
