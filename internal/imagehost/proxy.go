package imagehost

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// maxImageBytes bounds how much of an upstream image is relayed.
const maxImageBytes = 16 << 20

// maxRedirects matches the net/http default.
const maxRedirects = 10

var errRedirectNotAllowed = errors.New("redirect outside image allow-list")

// Proxy relays allow-listed images from the remote image host.
type Proxy struct {
	policy Policy
	client *http.Client
	logger zerolog.Logger
}

// NewProxy creates an image proxy.
func NewProxy(policy Policy, client *http.Client, logger zerolog.Logger) *Proxy {
	if client == nil {
		client = http.DefaultClient
	}

	// Every redirect hop must stay inside the allow-list.
	guarded := *client
	guarded.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errors.New("stopped after too many redirects")
		}
		if !policy.Allowed(req.URL.String()) {
			return errRedirectNotAllowed
		}
		return nil
	}

	return &Proxy{
		policy: policy,
		client: &guarded,
		logger: logger.With().Str("component", "image-proxy").Logger(),
	}
}

// ServeHTTP handles GET /images?src=<url>.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	src := r.URL.Query().Get("src")
	if src == "" {
		http.Error(w, "src parameter is required", http.StatusBadRequest)
		return
	}

	if !p.policy.Allowed(src) {
		p.logger.Warn().Str("src", src).Msg("image outside allow-list rejected")
		http.Error(w, "image host not allowed", http.StatusForbidden)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, src, nil)
	if err != nil {
		http.Error(w, "invalid image URL", http.StatusBadRequest)
		return
	}

	resp, err := p.client.Do(req)
	if errors.Is(err, errRedirectNotAllowed) {
		p.logger.Warn().Str("src", src).Msg("image redirect outside allow-list rejected")
		http.Error(w, "image host not allowed", http.StatusForbidden)
		return
	}
	if err != nil {
		p.logger.Warn().Err(err).Str("src", src).Msg("image fetch failed")
		http.Error(w, "image unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn().Int("status", resp.StatusCode).Str("src", src).Msg("image host returned non-success status")
		http.Error(w, "image unavailable", http.StatusBadGateway)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		p.logger.Warn().Str("content_type", contentType).Str("src", src).Msg("image host returned non-image content")
		http.Error(w, "image unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if cc := resp.Header.Get("Cache-Control"); cc != "" {
		w.Header().Set("Cache-Control", cc)
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, io.LimitReader(resp.Body, maxImageBytes)); err != nil {
		p.logger.Debug().Err(err).Str("src", src).Msg("image copy interrupted")
	}
}
