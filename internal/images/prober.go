package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Prober decides whether url points at a loadable image.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var ErrNotImage = errors.New("resource is not an image")

// HTTPProber fetches the resource and accepts it when the answer is 2xx and
// either declares or sniffs as image/*.
type HTTPProber struct {
	Doer Doer
	Log  *slog.Logger
}

func (p *HTTPProber) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "image/*")

	resp, err := p.Doer.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 32*1024))
		return fmt.Errorf("image probe: status=%d", resp.StatusCode)
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return nil
	}

	// storage buckets often answer application/octet-stream
	head, err := io.ReadAll(io.LimitReader(resp.Body, 3072))
	if err != nil {
		return err
	}
	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), "image/") {
		if p.Log != nil {
			p.Log.Debug("image probe: unexpected content", "url", url, "mime", mt.String())
		}
		return fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}
	return nil
}
