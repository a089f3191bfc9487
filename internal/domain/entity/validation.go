package entity

import "net"

// IsPrivateIP reports loopback, link-local (including cloud metadata
// endpoints), RFC 1918 and IPv6 unique local addresses.
func IsPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsPrivate() ||
		ip.IsUnspecified()
}
