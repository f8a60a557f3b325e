package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// proxyHeaders are consulted in order when the launcher sits behind a trusted proxy.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// hostOnly strips the port from "ip:port" or "[v6]:port".
func hostOnly(s string) string {
	s = strings.TrimSpace(s)
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// ClientIP resolves the address of the caller. Proxy headers are only
// honored when trustProxy is set; X-Forwarded-For contributes its left-most entry.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, name := range proxyHeaders {
			v := r.Header.Get(name)
			if i := strings.IndexByte(v, ','); i >= 0 {
				v = v[:i]
			}
			if ip := hostOnly(v); ip != "" {
				return ip
			}
		}
	}
	return hostOnly(r.RemoteAddr)
}

// IPMatcher matches addresses against a list of IPs and CIDRs.
// A bare IP is stored as a single-address prefix.
type IPMatcher struct {
	prefixes []netip.Prefix
}

// NewIPMatcher parses list, silently skipping entries that are neither IPs nor CIDRs.
func NewIPMatcher(list []string) *IPMatcher {
	m := &IPMatcher{}
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			m.prefixes = append(m.prefixes, p.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(s); err == nil {
			addr = addr.Unmap()
			m.prefixes = append(m.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return m
}

func (m *IPMatcher) IsEmpty() bool {
	return len(m.prefixes) == 0
}

func (m *IPMatcher) Allow(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range m.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
