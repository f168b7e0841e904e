package goJWT

import "context"

type clientIPContextKey struct{}
type tenantIDContextKey struct{}
type requestIDContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx. The Engine copies it
// into audit metadata and log fields for the sign or verify call that
// receives ctx.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// WithTenantID attaches a tenant identifier to ctx for audit attribution.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDContextKey{}, tenantID)
}

// WithRequestID attaches a request correlation ID to ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

func stringFromContext(ctx context.Context, key any) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// contextMetadata collects the request attributes attached to ctx. It
// returns nil when none are set.
func contextMetadata(ctx context.Context) map[string]string {
	var md map[string]string
	set := func(name, value string) {
		if value == "" {
			return
		}
		if md == nil {
			md = make(map[string]string, 3)
		}
		md[name] = value
	}
	set("ip", stringFromContext(ctx, clientIPContextKey{}))
	set("tenant", stringFromContext(ctx, tenantIDContextKey{}))
	set("request_id", stringFromContext(ctx, requestIDContextKey{}))
	return md
}
