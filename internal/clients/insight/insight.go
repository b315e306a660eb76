package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/platform/envutil"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

// Client talks to the study-insight service, which turns a graded summary
// into a short piece of feedback for the learner. The whole integration is
// advisory: callers must treat any error as "no advice".
type Client struct {
	log     *logger.Logger
	http    *http.Client
	baseURL string
}

func New(log *logger.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("INSIGHT_BASE_URL")), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing INSIGHT_BASE_URL")
	}
	timeout := time.Duration(envutil.Int("INSIGHT_TIMEOUT_MS", 1500)) * time.Millisecond
	return &Client{
		log:     log.With("client", "InsightClient"),
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}, nil
}

type adviceRequest struct {
	QuizID    string           `json:"quiz_id"`
	Role      string           `json:"role"`
	Score     int              `json:"score"`
	Questions []adviceQuestion `json:"questions"`
}

type adviceQuestion struct {
	QuestionID string `json:"question_id"`
	Correct    bool   `json:"correct"`
}

type adviceResponse struct {
	Advice string `json:"advice"`
}

func (c *Client) Advise(ctx context.Context, summary *domain.QuizSummary) (string, error) {
	payload := adviceRequest{
		QuizID: summary.QuizID.String(),
		Role:   string(summary.Role),
		Score:  summary.Score,
	}
	for _, qs := range summary.QuestionSummaries {
		payload.Questions = append(payload.Questions, adviceQuestion{
			QuestionID: qs.QuestionID.String(),
			Correct:    qs.Correct,
		})
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/advice", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("insight request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("insight returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out adviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode insight response: %w", err)
	}
	return strings.TrimSpace(out.Advice), nil
}
