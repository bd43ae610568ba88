// Package dhis2 pushes stock figures to a DHIS2 instance through its
// dataValueSets API.
package dhis2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DataValue is one measurement in a dataValueSets payload.
type DataValue struct {
	DataElement string `json:"dataElement"`
	Value       string `json:"value"`
	Comment     string `json:"comment,omitempty"`
}

// DataValueSet is the dataValueSets request body.
type DataValueSet struct {
	DataSet    string      `json:"dataSet"`
	OrgUnit    string      `json:"orgUnit"`
	Period     string      `json:"period"`
	DataValues []DataValue `json:"dataValues"`
}

// Client talks to one DHIS2 instance with basic auth. Pushes are one shot:
// a failed push is reported and not retried, the next sync sends fresh
// figures anyway.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	log      zerolog.Logger
}

func NewClient(baseURL, username, password string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
}

// SetHTTPClient overrides the underlying HTTP client. Tests only.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// PushDataValueSet posts one payload to /dataValueSets.
func (c *Client) PushDataValueSet(ctx context.Context, payload *DataValueSet) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/dataValueSets", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("push to dhis2: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("dhis2 api error: status %d: %s", resp.StatusCode, msg)
	}

	c.log.Info().
		Str("org_unit", payload.OrgUnit).
		Str("period", payload.Period).
		Int("values", len(payload.DataValues)).
		Msg("pushed data value set to dhis2")
	return nil
}
