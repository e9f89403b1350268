package middleware

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sellerbridge/backend/internal/infrastructure/cache"
	"github.com/sellerbridge/backend/internal/infrastructure/telemetry"
)

// cacheWriter tees the response body so a successful reply can be
// stored after the handler runs.
type cacheWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *cacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves eligible GET requests from the shared response
// cache and stores fresh 200 replies on the way out. Entries are keyed
// by the full request URI including the query string. A successful
// write invalidates every cached page of the collection it touched so
// the dashboard sees its own update instead of a stale list.
func ResponseCache(store *cache.ResponseCache, metrics *telemetry.ProxyMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}

		if c.Request.Method != http.MethodGet {
			c.Next()
			if status := c.Writer.Status(); status >= 200 && status < 300 {
				store.InvalidatePrefix(collectionPrefix(c.Request.URL.Path))
			}
			return
		}

		path := c.Request.URL.Path
		key := c.Request.URL.RequestURI()

		if entry := store.Get(key); entry != nil {
			c.Set("cache_hit", true)
			if metrics != nil {
				metrics.RecordCacheLookup(c.Request.Context(), path, true)
			}
			c.Header("X-Cache", "HIT")
			c.Data(entry.Status, entry.ContentType, entry.Body)
			c.Abort()
			return
		}

		c.Set("cache_hit", false)
		if metrics != nil {
			metrics.RecordCacheLookup(c.Request.Context(), path, false)
		}
		c.Header("X-Cache", "MISS")

		writer := &cacheWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		if writer.Status() == http.StatusOK {
			store.Put(key, writer.Status(), writer.Header().Get("Content-Type"), writer.body.Bytes())
		}
	}
}

// collectionPrefix maps a write path to the cache prefix it dirties.
// A write to /api/v1/items/123/pause invalidates everything cached
// under /api/v1/items, list pages included.
func collectionPrefix(path string) string {
	const apiPrefix = "/api/v1/"
	rest, ok := strings.CutPrefix(path, apiPrefix)
	if !ok {
		return path
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return apiPrefix + rest
}
