// Package sheets submits finished surveys to a spreadsheet web-app
// endpoint. The transport is a single HTTP form POST carrying the whole
// payload as JSON; the receiving script appends one row per record.
// Submission is strictly fire-and-forget from the core's point of view:
// local data is never mutated by a sync and never blocked by one.
package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/silvatech/forestctl/internal/geo"
	"github.com/silvatech/forestctl/internal/snapshot"
	"github.com/silvatech/forestctl/internal/stats"
)

// ErrSubmitTimeout is returned when the endpoint did not answer within
// the deadline. The submission may still have landed: callers must
// report the outcome as ambiguous, never as a definite failure.
var ErrSubmitTimeout = eris.New("submission timed out, outcome unknown")

// Payload is the wire shape posted to the spreadsheet endpoint: the
// full snapshot plus the derived stand figures, so the sheet never has
// to recompute anything.
type Payload struct {
	SubmittedAt time.Time          `json:"submittedAt"`
	Document    *snapshot.Document `json:"document"`
	Stats       stats.ProjectStats `json:"stats"`
	Geo         *geo.Summary       `json:"geo,omitempty"`
}

// BuildPayload assembles the sync payload. Pure function of its inputs.
func BuildPayload(doc *snapshot.Document, st stats.ProjectStats, spatial *geo.Summary) Payload {
	return Payload{
		SubmittedAt: time.Now().UTC(),
		Document:    doc,
		Stats:       st,
		Geo:         spatial,
	}
}

// Client posts payloads to one configured endpoint.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient returns a Client for the given endpoint. The timeout bounds
// each attempt; the retry attempt is paced so a slow endpoint is never
// hammered.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		timeout:  timeout,
		http:     &http.Client{},
		limiter:  rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// Submit posts the payload as an urlencoded form (`data=<json>`). One
// bounded retry follows a timed-out first attempt; if that times out
// too, ErrSubmitTimeout is returned and the outcome stays unknown.
func (c *Client) Submit(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "sheets: marshal payload")
	}
	form := url.Values{"data": {string(body)}}.Encode()

	for attempt := 1; attempt <= 2; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "sheets: rate wait")
		}

		err := c.post(ctx, form)
		if err == nil {
			return nil
		}
		if !isTimeout(err) {
			return err
		}
		zap.L().Warn("submission attempt timed out",
			zap.Int("attempt", attempt), zap.Duration("timeout", c.timeout))
	}
	return eris.Wrap(ErrSubmitTimeout, c.endpoint)
}

func (c *Client) post(ctx context.Context, form string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form))
	if err != nil {
		return eris.Wrap(err, "sheets: build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "sheets: post")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return eris.Errorf("sheets: endpoint answered %s", resp.Status)
	}
	return nil
}

func isTimeout(err error) bool {
	if eris.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return eris.As(err, &urlErr) && urlErr.Timeout()
}
