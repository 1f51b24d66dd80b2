// Package aisvc - client gọi AI proxy sinh câu trả lời cho chat.
// Endpoint thử lần lượt theo thứ tự cấu hình; khi TẤT CẢ đều fail thì
// kích hoạt cool-down 10 phút (soft circuit breaker) — trong cửa sổ đó
// mọi lời gọi bị bỏ qua cục bộ, reply engine rơi xuống chế độ keyword.
package aisvc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bienfaire_commerce/internal/common"
	"bienfaire_commerce/internal/global"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

// CooldownDuration thời gian tạm ngừng gọi AI sau khi toàn bộ endpoint fail
const CooldownDuration = 10 * time.Minute

// Turn một lượt hội thoại gửi kèm request (history)
type Turn struct {
	Role    string `json:"role"` // user | assistant
	Content string `json:"content"`
}

// ReplyRequest payload gửi đến AI proxy
type ReplyRequest struct {
	Message string `json:"message"`
	History []Turn `json:"history"`
	Context string `json:"context"`
	Model   string `json:"model"`
	System  string `json:"system"`
}

// replyResponse payload nhận về từ AI proxy
type replyResponse struct {
	Reply string `json:"reply"`
}

// Client gọi AI proxy với danh sách endpoint fallback và cool-down cục bộ.
type Client struct {
	endpoints []string
	model     string
	apiKey    string
	timeout   time.Duration

	httpClient *fasthttp.Client

	mu            sync.Mutex
	disabledUntil time.Time
}

var (
	clientInstance *Client
	clientOnce     sync.Once
)

// GetClient trả về singleton Client khởi tạo từ config
func GetClient() *Client {
	clientOnce.Do(func() {
		clientInstance = NewClient(
			global.ServerConfig.AIEndpointList(),
			global.ServerConfig.AIModel,
			global.ServerConfig.AIAPIKey,
			time.Duration(global.ServerConfig.AITimeoutSec)*time.Second,
		)
	})
	return clientInstance
}

// NewClient tạo Client với danh sách endpoint (thứ tự = thứ tự fallback)
func NewClient(endpoints []string, model, apiKey string, timeout time.Duration) *Client {
	return &Client{
		endpoints:  endpoints,
		model:      model,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &fasthttp.Client{},
	}
}

// Available kiểm tra client có thể gọi AI không (có endpoint và không trong cool-down)
func (c *Client) Available() bool {
	if len(c.endpoints) == 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().After(c.disabledUntil)
}

// DisabledUntil trả về thời điểm kết thúc cool-down (zero nếu đang hoạt động)
func (c *Client) DisabledUntil() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabledUntil
}

// Reply gửi message + history + context đến AI proxy và trả về câu trả lời.
// Trả về common.ErrAICoolingDown khi đang trong cool-down (không phát sinh network call),
// common.ErrAIUnavailable khi tất cả endpoint fail (và kích hoạt cool-down).
func (c *Client) Reply(ctx context.Context, message string, history []Turn, contextText string, system string) (string, error) {
	if len(c.endpoints) == 0 {
		return "", common.ErrAIUnavailable
	}
	if !c.Available() {
		return "", common.ErrAICoolingDown
	}

	req := ReplyRequest{
		Message: message,
		History: history,
		Context: contextText,
		Model:   c.model,
		System:  system,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", common.NewError(common.ErrCodeInternalServer, "Không thể serialize AI request", common.StatusInternalServerError, err)
	}

	var lastErr error
	for _, endpoint := range c.endpoints {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		reply, err := c.callEndpoint(endpoint, body)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"endpoint": endpoint,
				"error":    err.Error(),
			}).Warn("🤖 [AI] Endpoint fail, thử endpoint tiếp theo")
			lastErr = err
			continue
		}
		if reply == "" {
			lastErr = fmt.Errorf("empty reply from %s", endpoint)
			continue
		}

		// Thành công: xóa cool-down còn sót lại
		c.mu.Lock()
		c.disabledUntil = time.Time{}
		c.mu.Unlock()
		return reply, nil
	}

	// Tất cả endpoint fail → cool-down
	c.mu.Lock()
	c.disabledUntil = time.Now().Add(CooldownDuration)
	c.mu.Unlock()
	logrus.WithFields(logrus.Fields{
		"endpoints": len(c.endpoints),
		"lastError": fmt.Sprintf("%v", lastErr),
		"cooldown":  CooldownDuration.String(),
	}).Error("🤖 [AI] Tất cả endpoint fail, kích hoạt cool-down")

	return "", common.ErrAIUnavailable
}

// callEndpoint POST body đến một endpoint, trả về reply hoặc lỗi
func (c *Client) callEndpoint(endpoint string, body []byte) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.SetBody(body)

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return "", err
	}

	statusCode := resp.StatusCode()
	if statusCode < 200 || statusCode >= 300 {
		return "", fmt.Errorf("AI proxy returned status %d", statusCode)
	}

	var parsed replyResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("invalid AI proxy response: %w", err)
	}
	return parsed.Reply, nil
}
