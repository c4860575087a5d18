// Package replicate is a minimal client for the Replicate predictions API,
// covering the single model this module drives.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public API endpoint; override for tests or proxies.
const DefaultBaseURL = "https://api.replicate.com"

const defaultPollInterval = time.Second

// Client invokes the expression-editor model synchronously: it creates a
// prediction, polls until the service reports a terminal status and returns
// fetchable output handles. No retries are performed; failures propagate to
// the caller, which decides whether the run continues.
type Client struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	pollInterval time.Duration
}

// NewClient constructs a Client. timeout bounds each individual HTTP
// request, not the whole prediction (a generation may poll for a while).
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	trimmed := strings.TrimRight(baseURL, "/")
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	return &Client{
		baseURL: trimmed,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		pollInterval: defaultPollInterval,
	}
}

// SetPollInterval overrides the delay between status polls.
func (c *Client) SetPollInterval(d time.Duration) {
	if d > 0 {
		c.pollInterval = d
	}
}

// Output is a handle to one generated image.
type Output struct {
	URL    string
	client *Client
}

// Open fetches the output bytes. The caller owns the returned reader.
func (o Output) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("new output request: %w", err)
	}
	resp, err := o.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch output %s: %w", o.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2000))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch output %s: %d: %s", o.URL, resp.StatusCode, string(body))
	}
	return resp.Body, nil
}

// Generate runs the model once for the given gaze point and blocks until the
// prediction reaches a terminal status. Pupil offsets are clamped to
// [-15, 15]; head rotations are derived from the clamped values so the gaze
// shift reads more pronounced, pitch inverted relative to pupil vertical.
func (c *Client) Generate(ctx context.Context, image string, pupilX, pupilY float64) ([]Output, error) {
	px := clamp(pupilX, -15, 15)
	py := clamp(pupilY, -15, 15)
	// Linear scale to at most +/-10 degrees; the outer clamp is a no-op by
	// construction but holds the documented [-20, 20] contract.
	yaw := clamp(px/15.0*10.0, -20, 20)
	pitch := clamp(-(py / 15.0 * 10.0), -20, 20)

	input := PredictionInput{
		Image:       image,
		PupilX:      px,
		PupilY:      py,
		RotateYaw:   yaw,
		RotatePitch: pitch,
	}
	pred, err := c.createPrediction(ctx, input)
	if err != nil {
		return nil, err
	}
	for !terminal(pred.Status) {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("prediction %s: %w", pred.ID, ctx.Err())
		case <-time.After(c.pollInterval):
		}
		pred, err = c.getPrediction(ctx, pred.ID)
		if err != nil {
			return nil, err
		}
	}
	if pred.Status != StatusSucceeded {
		msg := strings.TrimSpace(pred.Error)
		if msg == "" {
			msg = "no error detail"
		}
		return nil, fmt.Errorf("prediction %s %s: %s", pred.ID, pred.Status, msg)
	}
	urls, err := decodeOutputURLs(pred.Output)
	if err != nil {
		return nil, fmt.Errorf("prediction %s: %w", pred.ID, err)
	}
	outputs := make([]Output, 0, len(urls))
	for _, u := range urls {
		outputs = append(outputs, Output{URL: u, client: c})
	}
	return outputs, nil
}

func (c *Client) createPrediction(ctx context.Context, input PredictionInput) (predictionResponse, error) {
	var zero predictionResponse
	body, err := json.Marshal(predictionRequest{Version: ModelVersion, Input: input})
	if err != nil {
		return zero, fmt.Errorf("marshal prediction request: %w", err)
	}
	endpoint := c.baseURL + "/v1/predictions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.token)
	return c.doJSON(req, endpoint)
}

func (c *Client) getPrediction(ctx context.Context, id string) (predictionResponse, error) {
	var zero predictionResponse
	endpoint := c.baseURL + "/v1/predictions/" + id
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return zero, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	return c.doJSON(req, endpoint)
}

func (c *Client) doJSON(req *http.Request, endpoint string) (predictionResponse, error) {
	var zero predictionResponse
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("http do: %w", err)
	}
	respBody, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return zero, fmt.Errorf("read response body: %w", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, fmt.Errorf("predictions API %s: %d: %s", endpoint, resp.StatusCode, truncate(string(respBody), 2000))
	}
	if err := json.Unmarshal(respBody, &zero); err != nil {
		return predictionResponse{}, fmt.Errorf("decode response: %w; body: %s", err, truncate(string(respBody), 1000))
	}
	return zero, nil
}

// decodeOutputURLs accepts both output shapes the API produces: a list of
// URLs or a bare URL string. Absent output yields an empty slice.
func decodeOutputURLs(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	return nil, fmt.Errorf("unexpected output shape: %s", truncate(string(raw), 500))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
