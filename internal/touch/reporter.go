package touch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Batch 是上报请求体 {"touches": [...]}
type Batch struct {
	Touches []Touch `json:"touches"`
}

// HTTPReporter 以 POST {origin}/{endpoint} 的方式上报触点批次。
// Send 立即返回，请求在独立的 goroutine 中发出；不等待、不检查响应、不重试，
// 不保证送达，也不保证多次上报之间的顺序。
type HTTPReporter struct {
	origin string
	client *http.Client

	// OnError 在请求失败 (传输错误或非 2xx 状态码) 时被调用，可选。
	// 它运行在发送 goroutine 中。
	OnError func(endpoint Event, err error)
}

// NewHTTPReporter 创建 HTTPReporter。client 为 nil 时使用 http.DefaultClient。
func NewHTTPReporter(origin string, client *http.Client) *HTTPReporter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPReporter{
		origin: strings.TrimRight(origin, "/"),
		client: client,
	}
}

// URL 返回端点的完整地址
func (r *HTTPReporter) URL(endpoint Event) string {
	return r.origin + "/" + string(endpoint)
}

// Send 实现 Reporter
func (r *HTTPReporter) Send(endpoint Event, touches []Touch) {
	if touches == nil {
		touches = []Touch{}
	}
	body, err := json.Marshal(Batch{Touches: touches})
	if err != nil {
		r.fail(endpoint, fmt.Errorf("touch: marshal batch: %w", err))
		return
	}
	go r.post(endpoint, body)
}

func (r *HTTPReporter) post(endpoint Event, body []byte) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, r.URL(endpoint), bytes.NewReader(body))
	if err != nil {
		r.fail(endpoint, fmt.Errorf("touch: build request: %w", err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.fail(endpoint, fmt.Errorf("touch: post %s: %w", endpoint, err))
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.fail(endpoint, fmt.Errorf("touch: post %s: unexpected status %d", endpoint, resp.StatusCode))
	}
}

func (r *HTTPReporter) fail(endpoint Event, err error) {
	if r.OnError != nil {
		r.OnError(endpoint, err)
	}
}
