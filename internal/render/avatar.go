package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // register decoders for avatar formats
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	_ "golang.org/x/image/webp"
)

const (
	maxAvatarBytes = 5 << 20

	// Only data URLs up to maxCachedBytes are kept, at most avatarCacheSize
	// of them, each for avatarCacheTTL.
	avatarCacheSize = 128
	maxCachedBytes  = 256 << 10
	avatarCacheTTL  = time.Hour
)

// AvatarLoader turns an avatar source into a decoded image. Remote images are
// fetched as data URLs; small ones are kept in a bounded LRU so repeated
// renders of the same card skip the remote host.
type AvatarLoader struct {
	httpClient *http.Client
	now        func() time.Time
	cache      *expirable.LRU[string, string]
	maxCached  int
}

// NewAvatarLoader returns a loader using hc, or a client with a 10s timeout
// when hc is nil.
func NewAvatarLoader(hc *http.Client) *AvatarLoader {
	return newAvatarLoader(hc, avatarCacheSize, maxCachedBytes, avatarCacheTTL)
}

func newAvatarLoader(hc *http.Client, entries, maxCached int, ttl time.Duration) *AvatarLoader {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &AvatarLoader{
		httpClient: hc,
		now:        time.Now,
		cache:      expirable.NewLRU[string, string](entries, nil, ttl),
		maxCached:  maxCached,
	}
}

// Prefetch returns a data URL copy of src. Data URLs are returned unchanged.
func (l *AvatarLoader) Prefetch(ctx context.Context, src string, cacheBust bool) (string, error) {
	if strings.HasPrefix(src, "data:") {
		return src, nil
	}

	if cached, ok := l.cache.Get(src); ok {
		return cached, nil
	}

	target := src
	if cacheBust {
		target = l.bust(src)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("render.Prefetch: create request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("render.Prefetch: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("render.Prefetch: %s returned HTTP %d", src, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes+1))
	if err != nil {
		return "", fmt.Errorf("render.Prefetch: read body: %w", err)
	}
	if len(data) > maxAvatarBytes {
		return "", fmt.Errorf("render.Prefetch: %s exceeds %d bytes", src, maxAvatarBytes)
	}

	mimeType := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("render.Prefetch: %s is %s, not an image", src, mimeType)
	}

	dataURL := EncodeDataURL(mimeType, data)
	if len(dataURL) <= l.maxCached {
		l.cache.Add(src, dataURL)
	}
	return dataURL, nil
}

// Load resolves src to a decoded image.
func (l *AvatarLoader) Load(ctx context.Context, src string, cacheBust bool) (image.Image, error) {
	dataURL, err := l.Prefetch(ctx, src, cacheBust)
	if err != nil {
		return nil, err
	}
	_, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("render.Load: decode avatar: %w", err)
	}
	return img, nil
}

func (l *AvatarLoader) bust(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	q := u.Query()
	q.Set("cacheBust", strconv.FormatInt(l.now().UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}
