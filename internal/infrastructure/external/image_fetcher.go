package external

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"tryon-combine/internal/domain/entities"
	"tryon-combine/internal/domain/repositories"
)

// Some image hosts reject requests without a browser-like user agent.
const fetchUserAgent = "Mozilla/5.0"

const sniffLen = 3072

type HTTPImageFetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewHTTPImageFetcher(timeout time.Duration, maxBytes int64) repositories.ImageFetcher {
	return &HTTPImageFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// NewHTTPImageFetcherWithClient is used by tests to point the fetcher at a local server.
func NewHTTPImageFetcherWithClient(client *http.Client, maxBytes int64) *HTTPImageFetcher {
	return &HTTPImageFetcher{client: client, maxBytes: maxBytes}
}

func (f *HTTPImageFetcher) Fetch(ctx context.Context, rawURL string, dest string) entities.FetchResult {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		if err == nil {
			err = fmt.Errorf("unsupported url %q", rawURL)
		}
		return entities.FetchFailed(entities.FetchInvalidURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return entities.FetchFailed(entities.FetchInvalidURL, err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return entities.FetchFailed(entities.FetchUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return entities.FetchFailed(entities.FetchBadStatus, fmt.Errorf("GET %s: status %d", u.Redacted(), resp.StatusCode))
	}

	body := bufio.NewReaderSize(resp.Body, sniffLen)
	head, err := body.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return entities.FetchFailed(entities.FetchUnreachable, fmt.Errorf("failed to read body: %w", err))
	}

	mtype := mimetype.Detect(head)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return entities.FetchFailed(entities.FetchNotImage, fmt.Errorf("content type %s is not an image", mtype.String()))
	}

	size, reason, err := f.writeFile(dest, body)
	if err != nil {
		return entities.FetchFailed(reason, err)
	}

	slog.Info("downloaded garment image", "url", u.Redacted(), "mimeType", mtype.String(), "size", humanize.Bytes(uint64(size)))
	return entities.FetchSucceeded(dest, mtype.String(), size)
}

func (f *HTTPImageFetcher) writeFile(dest string, r io.Reader) (int64, entities.FetchFailureReason, error) {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, entities.FetchWriteFailed, fmt.Errorf("failed to create %s: %w", dest, err)
	}

	src := r
	if f.maxBytes > 0 {
		src = io.LimitReader(r, f.maxBytes+1)
	}

	n, copyErr := io.Copy(out, src)
	closeErr := out.Close()

	reason := entities.FetchWriteFailed
	err = errors.Join(copyErr, closeErr)
	if copyErr != nil {
		// A read failure mid-body is the remote side's fault.
		if _, ok := copyErr.(*os.PathError); !ok {
			reason = entities.FetchUnreachable
		}
	} else if f.maxBytes > 0 && n > f.maxBytes {
		reason = entities.FetchTooLarge
		err = fmt.Errorf("image exceeds %s", humanize.Bytes(uint64(f.maxBytes)))
	}

	if err != nil {
		_ = os.Remove(dest)
		return 0, reason, err
	}
	return n, "", nil
}
