// Package netx uploads bodies to presigned object-storage URLs.
package netx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

// ProgressFunc receives the bytes sent so far and the body length.
type ProgressFunc func(sent, total int64)

// PutRequest describes a single PUT. IntentID identifies the upload the
// bytes belong to and is only used for attribution by callers.
type PutRequest struct {
	URL         string
	ContentType string
	IntentID    string
	Progress    ProgressFunc
}

type Uploader struct {
	client *http.Client
}

// NewUploader returns an Uploader whose requests time out after timeout.
// A zero timeout means no limit.
func NewUploader(timeout time.Duration) *Uploader {
	return &Uploader{client: &http.Client{Timeout: timeout}}
}

// PutBytes uploads body. It returns the response status code; any status
// other than 200 is reported as ErrUnexpectedStatus.
func (u *Uploader) PutBytes(ctx context.Context, req PutRequest, body []byte) (int, error) {
	return u.put(ctx, req, bytes.NewReader(body), int64(len(body)))
}

// PutFile streams the file at path.
func (u *Uploader) PutFile(ctx context.Context, req PutRequest, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}

	return u.put(ctx, req, f, fi.Size())
}

func (u *Uploader) put(ctx context.Context, r PutRequest, body io.Reader, size int64) (int, error) {
	if r.Progress != nil {
		body = &progressReader{r: body, total: size, fn: r.Progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.URL, body)
	if err != nil {
		return 0, err
	}
	req.ContentLength = size

	contentType := r.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, fmt.Errorf("%w: upload failed: %s; body: %s", ErrUnexpectedStatus, resp.Status, string(b))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

type progressReader struct {
	r     io.Reader
	sent  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(p.sent, p.total)
	}
	return n, err
}
