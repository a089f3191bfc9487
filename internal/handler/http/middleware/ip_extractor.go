// Package middleware holds the HTTP middlewares that sit in front of the
// perangkum API: client IP extraction, per-IP rate limiting and CORS.
package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPExtractor resolves the client IP address of a request.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor uses the TCP peer address and ignores forwarding headers.
type RemoteAddrExtractor struct{}

// ExtractIP strips the port from r.RemoteAddr.
//
// Examples:
//   - "192.168.1.1:54321" → "192.168.1.1"
//   - "[2001:db8::1]:8080" → "2001:db8::1"
func (e *RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	return extractIPFromAddr(r.RemoteAddr)
}

// ParseTrustedProxies converts IPs and CIDRs into prefixes. A bare IP becomes
// a /32 or /128 prefix.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			ip, ipErr := netip.ParseAddr(entry)
			if ipErr != nil {
				return nil, fmt.Errorf("invalid IP or CIDR format %q", entry)
			}
			prefix = netip.PrefixFrom(ip, ip.BitLen())
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return prefixes, nil
}

// TrustedProxyExtractor reads X-Forwarded-For and X-Real-IP, but only when
// the peer is one of the trusted proxies. Other peers fall back to RemoteAddr.
type TrustedProxyExtractor struct {
	proxies []netip.Prefix
	logger  *slog.Logger
}

// NewTrustedProxyExtractor returns an extractor trusting the given prefixes.
func NewTrustedProxyExtractor(proxies []netip.Prefix, logger *slog.Logger) *TrustedProxyExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrustedProxyExtractor{proxies: proxies, logger: logger}
}

// NewIPExtractor picks a TrustedProxyExtractor when proxies are configured and
// a RemoteAddrExtractor otherwise.
func NewIPExtractor(proxies []netip.Prefix, logger *slog.Logger) IPExtractor {
	if len(proxies) == 0 {
		return &RemoteAddrExtractor{}
	}
	return NewTrustedProxyExtractor(proxies, logger)
}

// ExtractIP returns the first X-Forwarded-For entry, then X-Real-IP, then
// RemoteAddr.
func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	if !e.isTrusted(r.RemoteAddr) {
		if r.Header.Get("X-Forwarded-For") != "" || r.Header.Get("X-Real-IP") != "" {
			e.logger.Warn("ignoring forwarding headers from untrusted peer",
				slog.String("remote_addr", r.RemoteAddr))
		}
		return extractIPFromAddr(r.RemoteAddr)
	}

	if ip := parseFirstIP(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip, nil
	}
	if ip := parseFirstIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip, nil
	}
	return extractIPFromAddr(r.RemoteAddr)
}

func (e *TrustedProxyExtractor) isTrusted(remoteAddr string) bool {
	ip, err := extractIPFromAddr(remoteAddr)
	if err != nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range e.proxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// extractIPFromAddr strips an optional port from "IP:port".
func extractIPFromAddr(addr string) (string, error) {
	if addr == "" {
		return "", fmt.Errorf("empty address")
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		// no port
		host = strings.Trim(addr, "[]")
	}
	if _, err := netip.ParseAddr(host); err != nil {
		return "", fmt.Errorf("invalid IP address %q", host)
	}
	return host, nil
}

// parseFirstIP returns the first valid IP in a comma-separated header value.
func parseFirstIP(header string) string {
	if header == "" {
		return ""
	}
	first, _, _ := strings.Cut(header, ",")
	first = strings.TrimSpace(first)
	if _, err := netip.ParseAddr(first); err != nil {
		return ""
	}
	return first
}
