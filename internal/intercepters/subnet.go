package intercepters

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type contextKey string

const RealIPKey contextKey = "real-ip"

// realIP returns the x-real-ip metadata value, or the peer address when the
// header is absent.
func realIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ips := md.Get("x-real-ip"); len(ips) > 0 && ips[0] != "" {
			return ips[0]
		}
	}

	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		host, _, err := net.SplitHostPort(p.Addr.String())
		if err == nil {
			return host
		}
	}

	return ""
}

func SubnetIPInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	if ip := realIP(ctx); ip != "" {
		ctx = context.WithValue(ctx, RealIPKey, ip)
	}
	return handler(ctx, req)
}

// TrustedSubnet rejects calls from outside cidr with PermissionDenied.
// An empty cidr lets every call through.
func TrustedSubnet(cidr string) grpc.UnaryServerInterceptor {
	var trusted *net.IPNet
	if cidr != "" {
		_, trusted, _ = net.ParseCIDR(cidr)
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if cidr == "" {
			return handler(ctx, req)
		}

		ip := net.ParseIP(realIP(ctx))
		if trusted == nil || ip == nil || !trusted.Contains(ip) {
			return nil, status.Error(codes.PermissionDenied, "caller is outside the trusted subnet")
		}

		return handler(ctx, req)
	}
}
