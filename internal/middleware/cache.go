package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-news/internal/config"
)

// HeaderCache reports HIT or MISS on cacheable requests.
const HeaderCache = "X-Cache"

// captureWriter tees the response body, up to limit bytes, while
// forwarding it to the client.
type captureWriter struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.truncated {
		if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
			cw.truncated = true
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

// cachedResponse is what a cache entry holds.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

func genKey(cfg config.CacheConfig) string { return cfg.Prefix + ":gen" }

// cacheKey derives the entry key from the generation, the caller (listings
// may be filtered by owner) and the request per cfg.KeyStrategy.
func cacheKey(cfg config.CacheConfig, gen int64, login string, c echo.Context) string {
	r := c.Request()
	parts := []string{"u", login}
	switch cfg.KeyStrategy {
	case "route":
		parts = append(parts, "route", c.Path(), "p", r.URL.Path)
	case "method_route_query":
		parts = append(parts, "method", r.Method, "route", r.URL.Path, "q", r.URL.RawQuery)
	default: // route_query
		parts = append(parts, "route", r.URL.Path, "q", r.URL.RawQuery)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%d:%x", cfg.Prefix, gen, sum[:])
}

// mayHaveWritten reports whether a mutating request could have changed
// stored state.  Client errors are rejected before the store is touched;
// server errors and unclassified errors leave the outcome unknown.
func mayHaveWritten(status int, err error) bool {
	if err != nil {
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			return true
		}
		status = he.Code
	}
	return status < http.StatusBadRequest || status >= http.StatusInternalServerError
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// NewRedisCache caches successful responses of cfg.Methods in Redis.  A
// mutating request bumps the generation counter once the handler returns,
// which retires every entry written before it: a client that reads after
// its own write always reaches the handler.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	log = log.With().Str("component", "response-cache").Logger()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := strings.ToUpper(c.Request().Method)
			ctx := c.Request().Context()

			if isMutation(method) {
				err := next(c)
				if mayHaveWritten(c.Response().Status, err) {
					if ierr := rdb.Incr(context.WithoutCancel(ctx), genKey(cfg)).Err(); ierr != nil {
						log.Warn().Err(ierr).Msg("cache generation not bumped")
					}
				}
				return err
			}
			if !cfg.Methods[method] {
				return next(c)
			}

			gen, err := rdb.Get(ctx, genKey(cfg)).Int64()
			if err != nil && !errors.Is(err, redis.Nil) {
				log.Warn().Err(err).Msg("cache unavailable")
				return next(c)
			}
			key := cacheKey(cfg, gen, callerLogin(c), c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var hit cachedResponse
				if json.Unmarshal(bs, &hit) == nil {
					h := c.Response().Header()
					for k, vals := range hit.Header {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						h[k] = append([]string(nil), vals...)
					}
					h.Set(HeaderCache, "HIT")
					c.Response().WriteHeader(hit.Status)
					_, err := c.Response().Write(hit.Body)
					return err
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set(HeaderCache, "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated {
				return nil
			}
			entry := cachedResponse{Status: cw.status, Header: c.Response().Header().Clone(), Body: cw.buf.Bytes()}
			entry.Header.Del(HeaderCache)
			if payload, err := json.Marshal(entry); err == nil {
				_ = rdb.SetEx(context.WithoutCancel(ctx), key, payload, cfg.TTL).Err()
			}
			return nil
		}
	}
}
