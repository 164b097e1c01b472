// Package aisvc sinh nhận định kinh doanh (Markdown) từ gói báo cáo bán hàng.
// Gọi API chat-completions tương thích DeepSeek; lỗi mạng, timeout, status khác 200
// hay API key trống đều rơi về bản nhận định tự sinh — endpoint không bao giờ fail
// vì phía AI.
package aisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Nanford/crossborder-sales-analysis/config"
	salessvc "github.com/Nanford/crossborder-sales-analysis/internal/api/sales/service"
	"github.com/Nanford/crossborder-sales-analysis/internal/logger"
)

// Nguồn của bản nhận định trong response.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// NarrativeService gọi API chat-completions để sinh nhận định từ gói báo cáo.
type NarrativeService struct {
	apiURL      string
	apiKey      string
	model       string
	temperature float64
	timeout     time.Duration
	client      *http.Client
}

// NewNarrativeService tạo NarrativeService từ cấu hình server.
func NewNarrativeService(cfg *config.Configuration) *NarrativeService {
	timeout := time.Duration(cfg.AI_TimeoutSeconds) * time.Second
	return &NarrativeService{
		apiURL:      cfg.AI_APIURL,
		apiKey:      cfg.AI_APIKey,
		model:       cfg.AI_Model,
		temperature: cfg.AI_Temperature,
		timeout:     timeout,
		client:      &http.Client{Timeout: timeout},
	}
}

// NarrativeResult là kết quả sinh nhận định kèm nguồn (ai hay fallback).
type NarrativeResult struct {
	Analysis string
	Source   string
	Model    string
}

// chatMessage là một message trong payload chat-completions.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest là payload gửi API chat-completions.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatResponse là phần cần đọc từ response chat-completions.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sinh nhận định tuần từ gói báo cáo. Không bao giờ trả lỗi vì phía AI:
// mọi sự cố khi gọi API đều rơi về bản nhận định tự sinh.
func (s *NarrativeService) Generate(ctx context.Context, bundle *salessvc.ReportBundle) *NarrativeResult {
	return s.generate(ctx, bundle, weeklyPeriod)
}

// GenerateMonthly sinh nhận định tháng từ gói báo cáo.
func (s *NarrativeService) GenerateMonthly(ctx context.Context, bundle *salessvc.ReportBundle) *NarrativeResult {
	return s.generate(ctx, bundle, monthlyPeriod)
}

func (s *NarrativeService) generate(ctx context.Context, bundle *salessvc.ReportBundle, period periodWords) *NarrativeResult {
	log := logger.WithModule("ai")

	if s.apiKey == "" {
		log.Debug("AI API key trống, dùng nhận định tự sinh")
		return &NarrativeResult{Analysis: renderFallback(bundle, period), Source: SourceFallback}
	}

	content, err := s.callChatAPI(ctx, buildPrompt(bundle, period))
	if err != nil || content == "" {
		if err != nil {
			log.WithError(err).Warn("Gọi AI API thất bại, dùng nhận định tự sinh")
		}
		return &NarrativeResult{Analysis: renderFallback(bundle, period), Source: SourceFallback}
	}

	return &NarrativeResult{Analysis: content, Source: SourceAI, Model: s.model}
}

// callChatAPI gọi API chat-completions với timeout cấu hình sẵn.
func (s *NarrativeService) callChatAPI(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: "你是一位专业的电子商务销售数据分析师，擅长从数据中提取业务洞察。"},
			{Role: "user", Content: prompt},
		},
		Temperature: s.temperature,
		MaxTokens:   4000,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("AI API trả về status %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI API không trả về lựa chọn nào")
	}
	return result.Choices[0].Message.Content, nil
}
