// Package imagehost restricts product images to an allow-listed remote host
// and serves them through a local proxy.
package imagehost

import (
	"net/url"
	"path"
	"strings"

	"storefront/internal/config"
)

// ProxyPath is the route that serves allow-listed images.
const ProxyPath = "/images"

// Policy is an allow-list entry: protocol, hostname and path prefix.
type Policy struct {
	Protocol   string
	Host       string
	PathPrefix string
}

// NewPolicy builds a policy from configuration.
func NewPolicy(cfg config.ImageConfig) Policy {
	protocol := cfg.Protocol
	if protocol == "" {
		protocol = "https"
	}
	return Policy{
		Protocol:   strings.ToLower(protocol),
		Host:       strings.ToLower(cfg.Host),
		PathPrefix: dirPrefix(cfg.PathPrefix),
	}
}

// Allowed reports whether rawURL points inside the allow-listed location.
func (p Policy) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.User != nil {
		return false
	}
	// Host includes the port, so an explicit port only matches a policy
	// that names it.
	if !strings.EqualFold(u.Scheme, p.Protocol) || !strings.EqualFold(u.Host, p.Host) {
		return false
	}
	if u.Path == "" {
		return false
	}
	prefix := dirPrefix(p.PathPrefix)
	cleaned := path.Clean(u.Path)
	return strings.HasPrefix(cleaned+"/", prefix) && cleaned+"/" != prefix
}

// dirPrefix makes the prefix name a directory, so "/products" does not
// match "/products-private".
func dirPrefix(prefix string) string {
	if !strings.HasSuffix(prefix, "/") {
		return prefix + "/"
	}
	return prefix
}

// ProxyURL returns the local URL serving rawURL, or "" when the image is not
// allowed.
func (p Policy) ProxyURL(rawURL string) string {
	if !p.Allowed(rawURL) {
		return ""
	}
	return ProxyPath + "?src=" + url.QueryEscape(rawURL)
}
