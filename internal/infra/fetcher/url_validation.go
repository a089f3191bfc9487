package fetcher

import (
	"fmt"
	"net"
	"net/url"

	"perangkum/internal/domain/entity"
	"perangkum/internal/usecase/summary"
)

// ValidateURL checks the scheme and host of urlStr and, when denyPrivateIPs
// is set, that no resolved address is private. The feed reader shares it.
func ValidateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", summary.ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", summary.ErrInvalidURL, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", summary.ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", summary.ErrInvalidURL, hostname, err)
	}

	for _, ip := range ips {
		if entity.IsPrivateIP(ip) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", summary.ErrPrivateIP, hostname, ip.String())
		}
	}
	return nil
}
