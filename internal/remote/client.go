// Package remote talks to the record API and keeps it loosely in step with
// the local snapshot store. The local store is authoritative: remote calls
// are best effort and their failures never reach the user.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nutragenie/nutragenie/internal/snapshot"
)

// ErrRemote wraps every failure reported by or on the way to the record API.
var ErrRemote = errors.New("remote record API")

// DefaultTimeout bounds one remote call.
const DefaultTimeout = 5 * time.Second

// UsersPath is the record endpoint, relative to the base URL.
const UsersPath = "/api/users"

// Record is the flat payload exchanged with the record API. Lists are joined
// with commas and section confirmations are stored as "confirmed.<section>".
type Record struct {
	ID        string            `json:"id,omitempty"`
	Fields    map[string]string `json:"fields"`
	UpdatedAt time.Time         `json:"updated_at"`
}

const confirmedPrefix = "confirmed."

// listKeys are the snapshot keys holding option lists.
var listKeys = map[string]bool{
	snapshot.KeyRestrictions: true,
	snapshot.KeyConditions:   true,
}

// Flatten converts a snapshot into a record.
func Flatten(s snapshot.Snapshot) Record {
	rec := Record{
		ID:        s.ID,
		Fields:    make(map[string]string, len(s.Values)+len(s.Lists)+len(s.Confirmed)),
		UpdatedAt: s.UpdatedAt,
	}
	for k, v := range s.Values {
		rec.Fields[k] = v
	}
	for k, v := range s.Lists {
		rec.Fields[k] = strings.Join(v, ",")
	}
	for k, v := range s.Confirmed {
		rec.Fields[confirmedPrefix+k] = fmt.Sprint(v)
	}
	return rec
}

// Expand is the inverse of Flatten.
func Expand(rec Record) snapshot.Snapshot {
	s := snapshot.New()
	s.ID = rec.ID
	s.UpdatedAt = rec.UpdatedAt
	for k, v := range rec.Fields {
		switch {
		case strings.HasPrefix(k, confirmedPrefix):
			s.Confirmed[strings.TrimPrefix(k, confirmedPrefix)] = v == "true"
		case listKeys[k]:
			items := []string{}
			for _, it := range strings.Split(v, ",") {
				if it = strings.TrimSpace(it); it != "" {
					items = append(items, it)
				}
			}
			s.Lists[k] = items
		default:
			s.Values[k] = v
		}
	}
	return s
}

// Client calls the record API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. A non-positive timeout means
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Post stores rec and returns the record as the API stored it.
func (c *Client) Post(ctx context.Context, rec Record) (Record, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("marshal record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UsersPath, bytes.NewReader(body))
	if err != nil {
		return Record{}, fmt.Errorf("%w: build request: %v", ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out Record
	if err := c.do(req, &out); err != nil {
		return Record{}, err
	}
	return out, nil
}

// Get fetches a stored record by id.
func (c *Client) Get(ctx context.Context, id string) (Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+UsersPath+"/"+id, nil)
	if err != nil {
		return Record{}, fmt.Errorf("%w: build request: %v", ErrRemote, err)
	}
	var out Record
	if err := c.do(req, &out); err != nil {
		return Record{}, err
	}
	return out, nil
}

// Ping checks the API's health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrRemote, err)
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRemote, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrRemote, req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRemote, err)
	}
	return nil
}
