// Package backend provides a client for the RPC endpoints of the Delino
// AutoDev and DevBird services.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/delino/devbird-action/internal/logfields"
)

const loggerName = "backend_client"

// Service is a Delino backend service.
// Its name is the first path element of the service's RPC endpoints.
type Service string

const (
	AutoDev Service = "AutoDev"
	DevBird Service = "DevBird"
)

// Path returns the URL path of the RPC method of the service.
func (s Service) Path(method string) string {
	return "/" + string(s) + "/" + method
}

// Envelope contains the fields that every backend response carries.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Body is the raw response body.
	Body []byte `json:"-"`
}

// Client sends JSON encoded POST requests to a backend.
// When it was created with an access token, all requests are authenticated
// with it as bearer token.
type Client struct {
	restClt *resty.Client
	baseURL string
	logger  *zap.Logger
}

// New returns a client for the backend at baseURL.
// If accessToken is empty requests are sent unauthenticated.
// A timeout of 0 means no timeout is enforced by the client.
func New(baseURL, accessToken string, timeout time.Duration) *Client {
	logger := zap.L().Named(loggerName)

	restClt := resty.NewWithClient(newHTTPClient(accessToken, timeout)).
		SetBaseURL(baseURL).
		SetLogger(logger.Sugar()).
		SetHeader("Accept", "application/json")

	return &Client{
		restClt: restClt,
		baseURL: baseURL,
		logger:  logger,
	}
}

func newHTTPClient(accessToken string, timeout time.Duration) *http.Client {
	if accessToken == "" {
		return &http.Client{
			Timeout: timeout,
		}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	)

	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = timeout

	return tc
}

// Post sends body JSON encoded to path.
// If the backend responds with a status code other then 200 an
// *ErrorHTTPRequest is returned.
// A 200 response body is decoded into the returned Envelope and, if result is
// not nil, additionally into result.
func (clt *Client) Post(ctx context.Context, path string, body, result any) (*Envelope, error) {
	logger := clt.logger.With(zap.String("http_url", clt.baseURL+path))

	resp, err := clt.restClt.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("sending request to %s failed: %w", path, err)
	}

	respBody := resp.Body()

	if resp.StatusCode() != http.StatusOK {
		return nil, &ErrorHTTPRequest{
			Body:   respBody,
			Status: resp.StatusCode(),
		}
	}

	logger.Debug(
		"http response received",
		logfields.Event("http_post_request_sent"),
		zap.Int("http_response_code", resp.StatusCode()),
		zap.Duration("http_request_duration", resp.Time()),
	)

	var env Envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("decoding response body failed: %w", err)
	}
	env.Body = respBody

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("decoding response body failed: %w", err)
		}
	}

	return &env, nil
}
