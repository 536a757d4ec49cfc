package util

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/factbot/internal/model"
)

// NewProxyFunc creates a proxy function based on configuration.
// With no proxy URLs configured it falls back to the environment.
// Hosts listed in noProxy (comma separated, suffix match) bypass the proxy.
func NewProxyFunc(cfg model.ProxyConfig) func(*http.Request) (*url.URL, error) {
	if cfg.HTTPProxy == "" && cfg.HTTPSProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := splitNoProxy(cfg.NoProxy)

	return func(req *http.Request) (*url.URL, error) {
		if matchesNoProxy(req.URL.Hostname(), bypass) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && cfg.HTTPSProxy != "" {
			return url.Parse(cfg.HTTPSProxy)
		}
		if cfg.HTTPProxy != "" {
			return url.Parse(cfg.HTTPProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// NewHTTPClient returns a client with the given timeout and proxy settings.
// A zero timeout means no client-side deadline.
func NewHTTPClient(timeout time.Duration, cfg model.ProxyConfig) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               NewProxyFunc(cfg),
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func splitNoProxy(raw string) []string {
	var hosts []string
	for _, h := range strings.Split(raw, ",") {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hosts = append(hosts, strings.TrimPrefix(h, "."))
		}
	}
	return hosts
}

func matchesNoProxy(host string, bypass []string) bool {
	host = strings.ToLower(host)
	for _, b := range bypass {
		if b == "*" || host == b || strings.HasSuffix(host, "."+b) {
			return true
		}
	}
	return false
}
