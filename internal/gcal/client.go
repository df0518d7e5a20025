// Package gcal is the calendar-source adapter: a thin typed client over a
// Google-Calendar-shaped REST API.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/haneulab/goal-report-service/internal/clock"
	"github.com/haneulab/goal-report-service/types"
)

// DefaultBaseURL is the production Calendar API endpoint.
const DefaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Client talks to the calendar service for one calendar.
type Client struct {
	baseURL    string
	calendarID string
	token      string
	resolver   *clock.Resolver
	http       *http.Client
}

// NewClient creates a calendar-source client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL, calendarID, token string, resolver *clock.Resolver) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		calendarID: calendarID,
		token:      token,
		resolver:   resolver,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

type wireEventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

type wireEvent struct {
	Start   wireEventTime `json:"start"`
	End     wireEventTime `json:"end"`
	Summary string        `json:"summary"`
}

type eventsResponse struct {
	Items []wireEvent `json:"items"`
}

// EventsForDay returns the day's events, expanded to single instances and
// ordered by start time by the upstream service.
func (c *Client) EventsForDay(ctx context.Context, day string) ([]types.CalendarEvent, error) {
	timeMin, timeMax, err := c.resolver.DayWindow(day)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("timeMin", timeMin.Format(time.RFC3339))
	params.Set("timeMax", timeMax.Format(time.RFC3339))
	params.Set("singleEvents", "true")
	params.Set("orderBy", "startTime")

	reqURL := fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, url.PathEscape(c.calendarID), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call calendar service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("calendar service returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode calendar response: %w", err)
	}

	events := make([]types.CalendarEvent, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		events = append(events, c.convertEvent(item))
	}
	return events, nil
}

func (c *Client) convertEvent(item wireEvent) types.CalendarEvent {
	ev := types.CalendarEvent{Title: item.Summary}
	if item.Start.DateTime == "" {
		ev.AllDay = true
		return ev
	}
	ev.Start = c.parseLocal(item.Start.DateTime)
	ev.End = c.parseLocal(item.End.DateTime)
	return ev
}

func (c *Client) parseLocal(raw string) *time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	local := t.In(c.resolver.Location())
	return &local
}
