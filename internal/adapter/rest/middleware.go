package rest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	callerCtxKey     = ContextKey("caller")
	callerSlotCtxKey = ContextKey("caller_slot")
)

var tracer = otel.Tracer("marketplace-service/http")

// callerSlot lets outer middleware see the caller resolved further in.
type callerSlot struct {
	user *domain.User
}

func withCaller(ctx context.Context, u *domain.User) context.Context {
	if slot, ok := ctx.Value(callerSlotCtxKey).(*callerSlot); ok {
		slot.user = u
	}
	return context.WithValue(ctx, callerCtxKey, u)
}

// CallerFrom returns the authenticated user, or nil.
func CallerFrom(ctx context.Context) *domain.User {
	u, _ := ctx.Value(callerCtxKey).(*domain.User)
	return u
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// JWTAuth rejects requests without a valid bearer token for a live user.
func JWTAuth(auth Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token is not provided"})
				return
			}
			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Debug("JWTAuth: authentication failed", zap.String("path", r.URL.Path), zap.Error(err))
				writeError(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), user)))
		})
	}
}

// OptionalAuth attaches the caller when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if user, err := auth.Authenticate(r.Context(), token); err == nil {
					r = r.WithContext(withCaller(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles must run after JWTAuth.
func RequireRoles(roles ...domain.AccountType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := CallerFrom(r.Context())
			if caller == nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token is not provided"})
				return
			}
			for _, role := range roles {
				if caller.Type == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSON(w, http.StatusForbidden, errorResponse{Error: publicMessage(domain.ErrAdminOnly)})
		})
	}
}

// rateLimiter throttles each client IP. It runs after RealIP, so proxied
// requests are keyed by the forwarded address.
func rateLimiter(limit RateLimit) func(http.Handler) http.Handler {
	return httprate.Limit(limit.Requests, limit.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too Many Requests, please try again later."})
		}),
	)
}

// routePattern is only complete once the router has matched the request.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Tracing starts a server span per request, continuing any incoming trace.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		route := routePattern(r)
		span.SetName(r.Method + " " + route)
		span.SetAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", ww.Status()),
		)
		if ww.Status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(ww.Status()))
		}
	})
}

// Observe logs and measures every request.
func Observe(log *logger.Logger, metrics RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			slot := &callerSlot{}
			r = r.WithContext(context.WithValue(r.Context(), callerSlotCtxKey, slot))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			route := routePattern(r)
			if metrics != nil {
				metrics.ObserveRequest(route, r.Method, status, elapsed.Seconds())
			}

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("duration", elapsed),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			}
			if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
				fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
			}
			if slot.user != nil {
				fields = append(fields, zap.String("caller_id", slot.user.ID.Hex()))
			}
			if status >= http.StatusInternalServerError {
				log.Warn("HTTP request", fields...)
				return
			}
			log.Info("HTTP request", fields...)
		})
	}
}

// requestMeta extracts what some operations need to know about the client.
func requestMeta(r *http.Request) usecase.RequestMeta {
	country := r.Header.Get("CF-IPCountry")
	if country == "" {
		country = r.Header.Get("X-Country-Code")
	}
	return usecase.RequestMeta{
		UserAgent: r.UserAgent(),
		Country:   strings.ToUpper(strings.TrimSpace(country)),
		ClientIP:  clientIP(r),
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func recoverer(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("Panic while serving request",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("panic", fmt.Sprint(rec)),
						zap.Stack("stack"),
					)
					writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
