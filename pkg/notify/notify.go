package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Outcome 事件结果，决定 embed 颜色
type Outcome string

const (
	OutcomeStarted Outcome = "started"
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailure Outcome = "failure"
)

// Discord 风格的十进制颜色值
var outcomeColors = map[Outcome]int{
	OutcomeStarted: 3447003,  // 蓝
	OutcomeSuccess: 3066993,  // 绿
	OutcomeWarning: 15105570, // 橙
	OutcomeFailure: 15158332, // 红
}

// Field 事件附加字段
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Event 一条结构化通知
type Event struct {
	Title       string
	Description string
	Outcome     Outcome
	Fields      []Field
}

// Client 向 Discord 兼容的 webhook 地址投递事件
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color"`
	Fields      []Field `json:"fields,omitempty"`
	Timestamp   string  `json:"timestamp"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

// Post 投递一条事件。webhookURL 为空视为未配置该路由，直接忽略。
func (c *Client) Post(ctx context.Context, webhookURL string, event Event) error {
	if webhookURL == "" {
		return nil
	}

	color, ok := outcomeColors[event.Outcome]
	if !ok {
		color = outcomeColors[OutcomeStarted]
	}
	payload := webhookPayload{
		Embeds: []embed{{
			Title:       event.Title,
			Description: event.Description,
			Color:       color,
			Fields:      event.Fields,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
