package interceptor

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/spanline/spanline/trace"
)

// metadataCarrier adapts gRPC metadata to the trace.Carrier interface.
// metadata keys are stored lowercased, which Get handles.
type metadataCarrier metadata.MD

func (m metadataCarrier) Lookup(key string) (string, bool) {
	vs := metadata.MD(m).Get(key)
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// UnaryInterceptor returns a gRPC unary server interceptor tracing every
// call. Policy uses the MethodFilter/MethodWhitelist options; the handler's
// response and error are propagated unchanged.
func (i *Interceptor) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		if i.opts.MethodFilter != nil && !i.opts.MethodFilter(info.FullMethod) {
			i.skip()
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		forced := i.opts.MethodWhitelist != nil && i.opts.MethodWhitelist(info.FullMethod)
		tc, inherited := i.resolver.Resolve(metadataCarrier(md), forced)

		ctx = trace.NewContext(ctx, tc)

		sess := i.newSession(tc, inherited, forced)
		sess.Open("grpc", info.FullMethod)
		defer func() {
			sess.Close(func() {
				if i.opts.AnnotateRPC != nil {
					i.opts.AnnotateRPC(tc, info.FullMethod, err)
				}
			})
		}()

		resp, err = handler(ctx, req)
		return resp, err
	}
}
