package suggest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/steadyhq/steady/internal/keyring"
	"github.com/steadyhq/steady/internal/models"
)

// ErrRemoteUnavailable wraps transport-level failures talking to the
// suggestion backend so callers can distinguish "down" from "said no".
var ErrRemoteUnavailable = errors.New("suggestion service unavailable")

// DefaultBaseURL points at the hosted suggestion functions.
const DefaultBaseURL = "https://api.steadyhq.dev/functions"

// RemoteClient calls the suggestion backend's function endpoint. Every
// call POSTs {"name": ..., "payload": ...} with the keyring-held bearer
// token.
type RemoteClient struct {
	baseURL string
	hc      *http.Client
	token   func() (string, error)
}

func NewRemoteClient(baseURL string) *RemoteClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &RemoteClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 15 * time.Second},
		token:   keyring.GetAPIToken,
	}
}

type functionRequest struct {
	Name    string `json:"name"`
	Payload any    `json:"payload"`
}

func (c *RemoteClient) call(name string, payload, out any) error {
	body, err := json.Marshal(functionRequest{Name: name, Payload: payload})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", name, err)
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token, err := c.token(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s returned %d: %s", name, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", name, err)
	}
	return nil
}

type suggestionPayload struct {
	TrackerID string `json:"tracker_id"`
	Day       string `json:"day"`
}

// Generate asks the backend for a fresh bundle for the tracker and day.
func (c *RemoteClient) Generate(trackerID, day string) (models.SuggestionBundle, error) {
	var bundle models.SuggestionBundle
	err := c.call("generateSuggestions", suggestionPayload{TrackerID: trackerID, Day: day}, &bundle)
	if err != nil {
		return models.SuggestionBundle{}, err
	}
	bundle.TrackerID = trackerID
	bundle.Day = day
	return bundle, nil
}

// GeneratedAt returns the backend's generation timestamp for the
// tracker's current bundle without fetching the bundle itself.
func (c *RemoteClient) GeneratedAt(trackerID, day string) (time.Time, error) {
	var out struct {
		GeneratedAt time.Time `json:"generated_at"`
	}
	if err := c.call("suggestionStatus", suggestionPayload{TrackerID: trackerID, Day: day}, &out); err != nil {
		return time.Time{}, err
	}
	return out.GeneratedAt, nil
}
