package middleware

import (
	"log/slog"
	"net"

	"github.com/labstack/echo/v4"
)

// DefaultTrustedProxies are the private ranges a reverse proxy in front of
// the service (docker bridge, LAN, localhost) typically connects from.
var DefaultTrustedProxies = []string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"fd00::/8",
}

// TrustedProxies makes c.RealIP() honour X-Forwarded-For, but only for hops
// inside trustedCIDRs. Requests arriving from anywhere else report their
// direct peer address. Invalid CIDRs are logged and skipped.
func TrustedProxies(e *echo.Echo, trustedCIDRs []string) {
	opts := []echo.TrustOption{
		// Only the listed ranges, not echo's built-in defaults.
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedCIDRs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			slog.Warn("ignoring invalid trusted proxy range", slog.String("cidr", cidr), slog.Any("error", err))
			continue
		}
		opts = append(opts, echo.TrustIPRange(network))
	}
	e.IPExtractor = echo.ExtractIPFromXFFHeader(opts...)
}
