package texture

import (
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Result is a finished load. Key is the caller's key captured when the
// load was requested.
type Result struct {
	Key    string
	Source string
	Image  *image.RGBA
	Err    error
}

// FetchFunc returns the raw bytes of a texture source.
type FetchFunc func(ctx context.Context, source string) ([]byte, error)

// Loader fetches and decodes textures on background goroutines and hands
// results back to the render thread through Poll. Loads cannot be
// cancelled individually; consumers match results by Key.
type Loader struct {
	fetch   FetchFunc
	cache   *Cache
	log     *zap.Logger
	results chan Result

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLoader creates a loader. A nil fetch uses Fetch; a nil log discards.
func NewLoader(fetch FetchFunc, log *zap.Logger) *Loader {
	if fetch == nil {
		fetch = Fetch
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		fetch:   fetch,
		cache:   NewCache(),
		log:     log,
		results: make(chan Result, 16),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Load starts loading source in the background.
func (l *Loader) Load(key, source string) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		img, err := l.load(source)
		select {
		case l.results <- Result{Key: key, Source: source, Image: img, Err: err}:
		case <-l.ctx.Done():
		}
	}()
}

func (l *Loader) load(source string) (*image.RGBA, error) {
	data, ok := l.cache.Get(source)
	if !ok {
		var err error
		data, err = l.fetch(l.ctx, source)
		if err != nil {
			return nil, err
		}
		l.cache.Set(source, data)
	}
	return Decode(data)
}

// Poll delivers every finished result to fn without blocking. Call it from
// the render thread.
func (l *Loader) Poll(fn func(Result)) int {
	n := 0
	for {
		select {
		case r := <-l.results:
			if r.Err != nil {
				l.log.Debug("texture load finished with error", zap.String("key", r.Key), zap.Error(r.Err))
			}
			fn(r)
			n++
		default:
			return n
		}
	}
}

// Wait blocks until all started loads have delivered or been abandoned.
// Results stay queued for Poll.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close abandons pending loads and waits for their goroutines.
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
}

// Fetch reads a texture source. Supported sources are local paths,
// file:// URLs, base64 data URIs and http(s) URLs.
func Fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "data:"):
		return decodeDataURI(source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return fetchHTTP(ctx, source)
	case strings.HasPrefix(source, "file://"):
		u, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", source, err)
		}
		return os.ReadFile(u.Path)
	default:
		return os.ReadFile(source)
	}
}

func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	s, err := url.PathUnescape(payload)
	return []byte(s), err
}

func fetchHTTP(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %s", source, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
