package inference

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"mindlog/internal/config"
	"mindlog/internal/models"
)

// Classifier scores text against the closed emotion label set. The returned
// vector has one independent probability in [0,1] per label index.
type Classifier interface {
	Classify(text string) ([]float64, error)
}

// HTTPClassifier calls a text-classification inference server
type HTTPClassifier struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewHTTPClassifier initializes a classifier client from config
func NewHTTPClassifier(cfg *config.Config, log *logrus.Logger) *HTTPClassifier {
	return &HTTPClassifier{
		url: cfg.ClassifierURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type classifyResponse struct {
	Scores []labelScore `json:"scores"`
}

// Classify sends the text to the inference server and maps the per-label
// scores back onto the fixed vector order. Labels the server reports that are
// not in the closed set are ignored.
func (c *HTTPClassifier) Classify(text string) ([]float64, error) {
	payload, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debugf("Classifier response: %s", string(body))

	var parsed classifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Scores) == 0 {
		return nil, fmt.Errorf("no scores in classifier response")
	}

	probs := make([]float64, models.NumEmotions)
	for _, ls := range parsed.Scores {
		if idx := models.LabelIndex(ls.Label); idx >= 0 {
			probs[idx] = ls.Score
		}
	}
	return probs, nil
}
