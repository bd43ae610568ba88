package middleware

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// BodyLimit returns middleware that limits the maximum request body size.
// defaultLimit applies to most endpoints while importLimit applies to the
// CSV batch-import endpoint, which legitimately carries larger payloads.
//
// Limits are specified as human-readable strings: "1M" for 1 megabyte,
// "512K" for 512 kilobytes. A bare number is treated as bytes.
func BodyLimit(defaultLimit, importLimit string) echo.MiddlewareFunc {
	defaultBytes := parseLimit(defaultLimit)
	importBytes := parseLimit(importLimit)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}

			limit := defaultBytes
			if strings.HasSuffix(req.URL.Path, "/medicines/import") {
				limit = importBytes
			}

			// Early rejection when the client declares the size up front.
			if req.ContentLength > limit {
				return errBodyTooLarge
			}

			// Enforce the limit even when Content-Length is missing or wrong.
			req.Body = &cappedBody{body: req.Body, remaining: limit}
			return next(c)
		}
	}
}

var errBodyTooLarge = echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")

// cappedBody wraps a request body and fails the read once the cap is
// exceeded. It reads one byte past the cap to distinguish a body that is
// exactly at the limit from one that overflows it.
type cappedBody struct {
	body      io.ReadCloser
	remaining int64
	exceeded  bool
}

func (b *cappedBody) Read(p []byte) (int, error) {
	if b.exceeded {
		return 0, errBodyTooLarge
	}

	if max := b.remaining + 1; int64(len(p)) > max {
		p = p[:max]
	}

	n, err := b.body.Read(p)
	b.remaining -= int64(n)
	if b.remaining < 0 {
		b.exceeded = true
		return 0, errBodyTooLarge
	}
	return n, err
}

func (b *cappedBody) Close() error { return b.body.Close() }

var limitSuffixes = []struct {
	suffix     string
	multiplier int64
}{
	{"GB", 1 << 30}, {"G", 1 << 30},
	{"MB", 1 << 20}, {"M", 1 << 20},
	{"KB", 1 << 10}, {"K", 1 << 10},
}

// parseLimit parses a human-readable size string into bytes. Unparsable
// input falls back to 1 MB.
func parseLimit(s string) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	for _, entry := range limitSuffixes {
		if strings.HasSuffix(s, entry.suffix) {
			multiplier = entry.multiplier
			s = strings.TrimSuffix(s, entry.suffix)
			break
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return n * multiplier
}
