package stubserver

import (
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/naikmubashir/setup-template/internal/logging"
)

// RequestIDHeader carries the per-request ID.
const RequestIDHeader = "X-Request-Id"

const (
	ctxRequestID = "request_id"
	ctxBody      = "body"
	ctxRawBody   = "raw_body"
	ctxForm      = "form"
)

// RequestID reuses an incoming X-Request-Id or generates one, and logs the
// request when it completes.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ctxRequestID, rid)
		c.Writer.Header().Set(RequestIDHeader, rid)

		start := time.Now()
		c.Next()

		logging.Get(logging.CategoryServer).With("request_id", rid).Info("%s %s %d %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// ParseBody decodes application/json and application/x-www-form-urlencoded
// request bodies up to limit bytes. Malformed JSON is rejected with 400.
func ParseBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		mediaType, _, _ := mime.ParseMediaType(c.ContentType())
		switch mediaType {
		case gin.MIMEJSON:
			data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
			if err != nil {
				abort(c, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			if len(strings.TrimSpace(string(data))) == 0 {
				break
			}
			if !gjson.ValidBytes(data) {
				abort(c, http.StatusBadRequest, "malformed JSON body")
				return
			}
			compact := pretty.Ugly(data)
			logging.Get(logging.CategoryServer).Debug("%s %s body: %s", c.Request.Method, c.Request.URL.Path, compact)
			c.Set(ctxRawBody, compact)
			c.Set(ctxBody, gjson.ParseBytes(data).Value())

		case gin.MIMEPOSTForm:
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
			if err := c.Request.ParseForm(); err != nil {
				abort(c, http.StatusBadRequest, "malformed form body")
				return
			}
			c.Set(ctxForm, c.Request.PostForm)
		}
		c.Next()
	}
}

func abort(c *gin.Context, status int, msg string) {
	logging.ServerError("%s %s rejected: %s", c.Request.Method, c.Request.URL.Path, msg)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// Body returns the decoded JSON body, if any.
func Body(c *gin.Context) (interface{}, bool) {
	return c.Get(ctxBody)
}

// RawBody returns the JSON body with insignificant whitespace removed.
func RawBody(c *gin.Context) ([]byte, bool) {
	v, ok := c.Get(ctxRawBody)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

// Form returns the decoded form body, if any.
func Form(c *gin.Context) (url.Values, bool) {
	v, ok := c.Get(ctxForm)
	if !ok {
		return nil, false
	}
	form, ok := v.(url.Values)
	return form, ok
}

// RequestIDFrom returns the ID assigned by RequestID.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}
