package handlers

import "context"

type requestMetaKey struct{}

// RequestMeta holds the parts of an HTTP request that analytics events record.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
	RequestID string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext returns the metadata stored by ContextWithRequestMeta.
func RequestMetaFromContext(ctx context.Context) (RequestMeta, bool) {
	meta, ok := ctx.Value(requestMetaKey{}).(RequestMeta)

	return meta, ok
}
