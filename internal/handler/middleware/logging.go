package middleware

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"slot-reservation-engine/internal/pkg/config"
	"slot-reservation-engine/internal/pkg/obs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID          = "X-Request-ID"
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"

	ctxRequestIDKey = "request_id"
	ctxBookingIDKey = "booking_id"

	maxLoggedHeaderLen = 64
)

// NewLogger builds the process logger and installs it as the slog default.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	tz := time.FixedZone(cfg.TimeZone, cfg.TimeZoneOffset)
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if t, ok := a.Value.Any().(time.Time); ok && a.Key == slog.TimeKey {
				a.Value = slog.StringValue(t.In(tz).Format(cfg.TimeFormat))
			}
			return a
		},
	}

	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if gin.Mode() == gin.ReleaseMode {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// RequestLogger writes one line per request after the chain has run, so the principal,
// the booking the request touched and any idempotency replay are known by then.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := inboundRequestID(c.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ctxRequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("route", routeOf(c)),
			slog.Int("status_code", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if traceID := obs.TraceID(c.Request.Context()); traceID != "" {
			attrs = append(attrs, slog.String("trace_id", traceID))
		}
		if p, ok := GetPrincipal(c); ok {
			attrs = append(attrs, slog.String("user_id", p.ID.String()), slog.String("role", p.Role.String()))
		}
		attrs = append(attrs, bookingAttrs(c)...)
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		logger.LogAttrs(c.Request.Context(), levelFor(status), "request", attrs...)
	}
}

// SetBookingID records the booking a request created, for routes without a booking path param.
func SetBookingID(c *gin.Context, id uuid.UUID) {
	c.Set(ctxBookingIDKey, id.String())
}

// GetBookingID prefers an id set by the handler and falls back to the :id param of booking routes.
func GetBookingID(c *gin.Context) string {
	if id := c.GetString(ctxBookingIDKey); id != "" {
		return id
	}
	if strings.HasPrefix(c.FullPath(), "/api/bookings/:id") {
		return c.Param("id")
	}
	return ""
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestIDKey)
}

func bookingAttrs(c *gin.Context) []slog.Attr {
	var attrs []slog.Attr
	if id := GetBookingID(c); id != "" {
		attrs = append(attrs, slog.String("booking_id", id))
	}
	if key := c.GetHeader(HeaderIdempotencyKey); key != "" {
		attrs = append(attrs, slog.String("idempotency_key", truncate(key)))
		if c.Writer.Header().Get(HeaderIdempotentReplayed) == "true" {
			attrs = append(attrs, slog.Bool("replayed", true))
		}
	}
	return attrs
}

// unmatched requests log the raw path; matched ones log the template to keep ids out of the route field
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return truncate(c.Request.URL.Path)
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// inboundRequestID keeps a caller's id only when it is short and made of token characters.
func inboundRequestID(raw string) string {
	if raw == "" || len(raw) > maxLoggedHeaderLen {
		return ""
	}
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return ""
		}
	}
	return raw
}

func truncate(s string) string {
	if len(s) > maxLoggedHeaderLen {
		return s[:maxLoggedHeaderLen]
	}
	return s
}
