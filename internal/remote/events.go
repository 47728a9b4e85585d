package remote

import (
	"context"
	"net/http"
	"net/url"
)

const eventsPath = "/api/events"

func (c *Client) ListEvents(ctx context.Context, token string) ([]Event, error) {
	var out []Event
	err := c.do(ctx, call{op: "list events", method: http.MethodGet, path: eventsPath, token: token, out: &out})
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) SearchEvents(ctx context.Context, token string, query url.Values) ([]Event, error) {
	var out []Event
	err := c.do(ctx, call{op: "search events", method: http.MethodGet, path: eventsPath + "/search", query: query, token: token, out: &out})
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) GetEvent(ctx context.Context, token, id string) (*Event, error) {
	var out Event
	err := c.do(ctx, call{op: "get event", method: http.MethodGet, path: eventPath(id), token: token, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateEvent(ctx context.Context, token string, data EventFormData) (*Event, error) {
	var out Event
	err := c.do(ctx, call{op: "create event", method: http.MethodPost, path: eventsPath, token: token, body: data, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, token, id string, data EventFormData) (*Event, error) {
	var out Event
	err := c.do(ctx, call{op: "update event", method: http.MethodPut, path: eventPath(id), token: token, body: data, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, token, id string) error {
	return c.do(ctx, call{op: "delete event", method: http.MethodDelete, path: eventPath(id), token: token})
}

func eventPath(id string) string {
	return eventsPath + "/" + url.PathEscape(id)
}

func nonNil(events []Event) []Event {
	if events == nil {
		return []Event{}
	}
	return events
}
