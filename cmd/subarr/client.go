package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client wraps HTTP calls to the subarr server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new subarr API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			// series scans run synchronously on the server
			Timeout: 10 * time.Minute,
		},
	}
}

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error %d", e.Status)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

func (c *Client) do(method, path string, result any) error {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(body, apiErr) != nil {
			apiErr.Message = string(body)
		}
		return apiErr
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) get(path string, result any) error {
	return c.do(http.MethodGet, path, result)
}

func (c *Client) post(path string, result any) error {
	return c.do(http.MethodPost, path, result)
}

// API response types (mirror server types)

type StatusResponse struct {
	Status        string `json:"status"`
	DroppedEvents uint64 `json:"dropped_events"`
}

type SubtitleResponse struct {
	ID       int64  `json:"id"`
	Language string `json:"language"`
	Forced   bool   `json:"forced"`
	HI       bool   `json:"hi"`
	Source   string `json:"source"`
	TrackID  *int64 `json:"track_id,omitempty"`
	Path     string `json:"path,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

type EpisodeSubtitlesResponse struct {
	EpisodeID int64              `json:"episode_id"`
	SeriesID  int64              `json:"series_id"`
	Season    int                `json:"season"`
	Episode   int                `json:"episode"`
	Title     string             `json:"title"`
	Missing   []string           `json:"missing"`
	Subtitles []SubtitleResponse `json:"subtitles"`
}

type ScanReportResponse struct {
	SeriesID    int64 `json:"series_id"`
	Total       int   `json:"total"`
	Scanned     int   `json:"scanned"`
	Unavailable int   `json:"unavailable"`
	Failed      int   `json:"failed"`
}

type ScanStartedResponse struct {
	JobID string `json:"job_id"`
}

type JobResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	Current    int        `json:"current"`
	Total      int        `json:"total"`
	Message    string     `json:"message,omitempty"`
	Failed     int        `json:"failed"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type ListJobsResponse struct {
	Items []JobResponse `json:"items"`
}

type EventResponse struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"event_type"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt string          `json:"occurred_at"`
}

type ListEventsResponse struct {
	Items  []EventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// API methods

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) EpisodeSubtitles(id int64) (*EpisodeSubtitlesResponse, error) {
	var resp EpisodeSubtitlesResponse
	if err := c.get(fmt.Sprintf("/api/v1/episodes/%d/subtitles", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ScanEpisode(id int64, useCache bool) (*EpisodeSubtitlesResponse, error) {
	params := url.Values{}
	params.Set("cache", strconv.FormatBool(useCache))
	var resp EpisodeSubtitlesResponse
	if err := c.post(fmt.Sprintf("/api/v1/episodes/%d/scan?%s", id, params.Encode()), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ScanSeries(id int64) (*ScanReportResponse, error) {
	var resp ScanReportResponse
	if err := c.post(fmt.Sprintf("/api/v1/series/%d/scan", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) StartScan() (*ScanStartedResponse, error) {
	var resp ScanStartedResponse
	if err := c.post("/api/v1/scan", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Jobs() (*ListJobsResponse, error) {
	var resp ListJobsResponse
	if err := c.get("/api/v1/jobs", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Job(id string) (*JobResponse, error) {
	var resp JobResponse
	if err := c.get("/api/v1/jobs/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Events(limit int) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.get(fmt.Sprintf("/api/v1/events?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
