// Package upload relays image uploads to the ImgBB image host. Nothing is
// written to local disk; the file is streamed straight through.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/gabriel-vasile/mimetype"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/gsarma/folio/internal/metrics"
)

const (
	imgbbEndpoint = "https://api.imgbb.com/1/upload"
	sniffLen      = 3072
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	// ErrUpstream wraps any failure of the image host.
	ErrUpstream = errors.New("image host error")
)

// AllowedTypes are the MIME types accepted for upload.
var AllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",
}

// Result is the hosted image.
type Result struct {
	URL        string `json:"url"`
	DisplayURL string `json:"displayUrl"`
	DeleteURL  string `json:"deleteUrl,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Size       int64  `json:"size,omitempty"`
	MimeType   string `json:"mimeType"`
}

type Config struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// Relay streams files to ImgBB.
type Relay struct {
	cfg    Config
	client *http.Client
	cb     *gobreaker.CircuitBreaker[*Result]
}

func NewRelay(cfg Config) *Relay {
	if cfg.Endpoint == "" {
		cfg.Endpoint = imgbbEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Relay{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cb: gobreaker.NewCircuitBreaker[*Result](gobreaker.Settings{
			Name:    "imgbb",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrTooLarge)
			},
		}),
	}
}

// Enabled reports whether an API key is configured.
func (r *Relay) Enabled() bool { return r.cfg.APIKey != "" }

// Upload sniffs src, rejects anything that is not an allowed image type, and
// streams the rest to the image host.
func (r *Relay) Upload(ctx context.Context, filename string, src io.Reader) (*Result, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, classifyReadErr(err)
	}
	head = head[:n]
	if n == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnsupportedType)
	}

	mt := mimetype.Detect(head)
	if !mimetype.EqualsAny(mt.String(), AllowedTypes...) {
		metrics.UploadsRelayed.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	body := io.MultiReader(bytes.NewReader(head), src)
	res, err := r.cb.Execute(func() (*Result, error) {
		return r.send(ctx, filename, body)
	})
	if err != nil {
		metrics.UploadsRelayed.WithLabelValues("failed").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return nil, err
	}
	res.MimeType = mt.String()
	metrics.UploadsRelayed.WithLabelValues("ok").Inc()
	return res, nil
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL        string      `json:"url"`
		DisplayURL string      `json:"display_url"`
		DeleteURL  string      `json:"delete_url"`
		Width      json.Number `json:"width"`
		Height     json.Number `json:"height"`
		Size       json.Number `json:"size"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (r *Relay) send(ctx context.Context, filename string, body io.Reader) (*Result, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	errc := make(chan error, 1)

	go func() {
		err := func() error {
			part, err := mw.CreateFormFile("image", filename)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, body); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
		errc <- err
	}()

	endpoint := r.cfg.Endpoint + "?key=" + url.QueryEscape(r.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		pr.Close()
		<-errc
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, doErr := r.client.Do(req)
	pr.Close()
	copyErr := <-errc
	if copyErr != nil && !errors.Is(copyErr, io.ErrClosedPipe) {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, classifyReadErr(copyErr)
	}
	if doErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, doErr)
	}
	defer resp.Body.Close()

	var out imgbbResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: status %d: undecodable response", ErrUpstream, resp.StatusCode)
	}
	if resp.StatusCode >= 300 || !out.Success || out.Data.URL == "" {
		msg := out.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, msg)
	}

	width, _ := out.Data.Width.Int64()
	height, _ := out.Data.Height.Int64()
	size, _ := out.Data.Size.Int64()
	return &Result{
		URL:        out.Data.URL,
		DisplayURL: out.Data.DisplayURL,
		DeleteURL:  out.Data.DeleteURL,
		Width:      int(width),
		Height:     int(height),
		Size:       size,
	}, nil
}

func classifyReadErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("read upload: %w", err)
}
