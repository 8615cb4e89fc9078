package hyperverge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultHost is the production endpoint of the document-verification API.
	DefaultHost = "https://ind.docs.hyperverge.co/v1.1/"

	// DefaultTimeout bounds a single upload request.
	DefaultTimeout = 60 * time.Second
)

// supportedExtensions maps a lower-cased file extension (without dot) to the
// multipart form field name the service expects for it.
var supportedExtensions = map[string]struct{}{
	"gif":  {},
	"jpg":  {},
	"jpeg": {},
	"tiff": {},
	"png":  {},
	"pdf":  {},
}

// IsSupportedFile checks if the path has a supported extension
// (case-insensitive).
func IsSupportedFile(path string) bool {
	_, ok := supportedExtensions[FormField(path)]

	return ok
}

// FormField returns the multipart form field name for a file: its extension,
// lower-cased, dot stripped.
func FormField(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Response is the JSON envelope returned by the service on an upload.
type Response struct {
	Status     string          `json:"status"`
	StatusCode StatusCode      `json:"statusCode"`
	Result     json.RawMessage `json:"result,omitempty"`
}

// StatusCode tolerates both string and numeric encodings of the service's
// statusCode field.
type StatusCode string

// UnmarshalJSON implements json.Unmarshaler.
func (c *StatusCode) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*c = StatusCode(n.String())

		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing statusCode: %w", err)
	}

	*c = StatusCode(s)

	return nil
}

// Options configures a Client. Values are fixed at construction time.
type Options struct {
	// Host is the base URL actions are appended to.
	Host string

	// AppID and AppKey are the credential headers sent with every upload.
	AppID  string
	AppKey string

	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client submits files to the document-verification API. Upload never
// returns a Go error: every completion path, including transport failures,
// resolves to an Outcome so callers branch on Outcome.Failed alone.
type Client struct {
	log  logrus.FieldLogger
	opts Options
	http *http.Client
}

// NewClient creates a client from the given options.
func NewClient(log logrus.FieldLogger, opts Options) *Client {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}

	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	return &Client{
		log:  log.WithField("component", "client"),
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout},
	}
}

// Upload submits one file to host+action and returns the outcome. The file's
// bytes travel in a single multipart form field named after the extension,
// with the appid/appkey credential headers attached.
func (c *Client) Upload(ctx context.Context, filePath string, action Action) Outcome {
	field := FormField(filePath)
	if _, ok := supportedExtensions[field]; !ok {
		return Failure(action, filePath,
			fmt.Sprintf("unsupported file extension %q", filepath.Ext(filePath)))
	}

	f, err := os.Open(filePath)
	if err != nil {
		return Failure(action, filePath, fmt.Sprintf("opening file: %v", err))
	}
	defer func() { _ = f.Close() }()

	var body bytes.Buffer

	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(field, filepath.Base(filePath))
	if err != nil {
		return Failure(action, filePath, fmt.Sprintf("building form: %v", err))
	}

	if _, err := io.Copy(part, f); err != nil {
		return Failure(action, filePath, fmt.Sprintf("reading file: %v", err))
	}

	if err := writer.Close(); err != nil {
		return Failure(action, filePath, fmt.Sprintf("building form: %v", err))
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.opts.Host+string(action), &body,
	)
	if err != nil {
		return Failure(action, filePath, fmt.Sprintf("building request: %v", err))
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("appid", c.opts.AppID)
	req.Header.Set("appkey", c.opts.AppKey)
	req.Header.Set("Accept", "application/json")

	c.log.WithFields(logrus.Fields{
		"file":   filePath,
		"action": action,
	}).Debug("Uploading file")

	resp, err := c.http.Do(req)
	if err != nil {
		return Failure(action, filePath, fmt.Sprintf("performing request: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure(action, filePath, fmt.Sprintf("reading response: %v", err))
	}

	var envelope Response
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Failure(action, filePath,
			fmt.Sprintf("parsing response (HTTP %d): %v", resp.StatusCode, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failure(action, filePath,
			fmt.Sprintf("service returned HTTP %d (status %q, statusCode %q)",
				resp.StatusCode, envelope.Status, envelope.StatusCode))
	}

	return Success(action, filePath, &envelope)
}

// Health performs the connectivity check: a plain GET against the host,
// returning the response body as opaque text. No credentials are required.
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.Host, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("reaching %s: %w", c.opts.Host, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	return string(data), nil
}
