package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// ErrDownloadTooLarge is returned when a file body exceeds the download cap
var ErrDownloadTooLarge = errors.New("download exceeds size cap")

// Downloader streams remote files to disk
type Downloader struct {
	httpClient *http.Client
	maxBytes   int64
}

// NewDownloader creates a Downloader. A body longer than maxBytes is cut off
// and reported as ErrDownloadTooLarge; maxBytes <= 0 disables the cap.
func NewDownloader(client *http.Client, maxBytes int64) *Downloader {
	if client == nil {
		client = &http.Client{}
	}
	c := *client
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 3 {
			return fmt.Errorf("stopped after 3 redirects")
		}
		return nil
	}
	return &Downloader{httpClient: &c, maxBytes: maxBytes}
}

// Fetch writes the body at rawURL to dest. A partially written file is left
// for the caller to remove.
func (d *Downloader) Fetch(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", redactURL(err))
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", redactURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	var body io.Reader = resp.Body
	if d.maxBytes > 0 {
		// Read one extra byte to detect truncation
		body = io.LimitReader(resp.Body, d.maxBytes+1)
	}

	n, err := io.Copy(f, body)
	if err != nil {
		f.Close()
		return fmt.Errorf("write file: %w", redactURL(err))
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}

	if d.maxBytes > 0 && n > d.maxBytes {
		return fmt.Errorf("%w: more than %d bytes", ErrDownloadTooLarge, d.maxBytes)
	}
	return nil
}

// redactURL drops the request URL from err. File links embed the bot token.
func redactURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = "[redacted]"
	}
	return err
}
