package middleware

import (
	"net"
	"net/http"
	"strings"
)

// WithSubnet lets a request through only when its X-Real-IP header holds an
// address inside cidr. An empty or invalid cidr forbids every request.
func WithSubnet(cidr string) func(next http.Handler) http.Handler {
	var trusted *net.IPNet
	if cidr != "" {
		_, trusted, _ = net.ParseCIDR(cidr)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP")))

			if trusted == nil || ip == nil || !trusted.Contains(ip) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
