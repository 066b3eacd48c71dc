package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "response_meta"

	MetaCacheHit       = "cache_hit"
	MetaProcessingTime = "processing_time_ms"
)

type responseMeta struct {
	started time.Time
	values  map[string]interface{}
}

// WithResponseMeta stamps the request start so handlers can report envelope
// meta measured from the moment the request entered the router.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, &responseMeta{started: time.Now(), values: map[string]interface{}{}})
		c.Next()
	}
}

// SetMeta records one envelope meta entry for the current response.
func SetMeta(c *gin.Context, key string, value interface{}) {
	metaOf(c).values[key] = value
}

// SetCacheHit records whether the payload came from the statistics cache.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, MetaCacheHit, hit)
}

// ResponseMeta returns a copy of the recorded entries with processing_time_ms
// filled in. Without WithResponseMeta the clock starts at the first SetMeta.
func ResponseMeta(c *gin.Context) map[string]interface{} {
	meta := metaOf(c)
	out := make(map[string]interface{}, len(meta.values)+1)
	for k, v := range meta.values {
		out[k] = v
	}
	out[MetaProcessingTime] = time.Since(meta.started).Milliseconds()
	return out
}

func metaOf(c *gin.Context) *responseMeta {
	if v, ok := c.Get(responseMetaKey); ok {
		if meta, ok := v.(*responseMeta); ok {
			return meta
		}
	}
	meta := &responseMeta{started: time.Now(), values: map[string]interface{}{}}
	c.Set(responseMetaKey, meta)
	return meta
}
