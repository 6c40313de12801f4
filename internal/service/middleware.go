package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	g "github.com/reoring/esguard"
	"github.com/reoring/esguard/grammar"
	"github.com/reoring/esguard/internal/logging"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyResult
)

// ContextWithRequestID attaches a request id to ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestIDFrom returns the request id of ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// ContextWithResult attaches a validation result to ctx.
func ContextWithResult(ctx context.Context, res *Result) context.Context {
	return context.WithValue(ctx, keyResult, res)
}

// ResultFromContext retrieves the result stored by ValidateDocument.
func ResultFromContext(ctx context.Context) (*Result, bool) {
	res, ok := ctx.Value(keyResult).(*Result)
	return res, ok
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(requestID string, iss g.Issues) gin.H {
	return gin.H{"request_id": requestID, "issues": iss}
}

// RequestID reuses the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLog logs one line per request at debug level.
func AccessLog(l logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.WithFields(logrus.Fields{
			"method":                c.Request.Method,
			"path":                  c.FullPath(),
			"status":                c.Writer.Status(),
			"duration":              time.Since(start),
			logging.FieldRequestID: RequestIDFrom(c.Request.Context()),
		}).Debug("request")
	}
}

// ValidateDocument validates the request body against the :schema parameter
// and stores the Result in the request context. Failures abort the chain.
func ValidateDocument(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := s.ReadBody(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := s.Validate(c.Request.Context(), c.Param("schema"), body, FormatFor(c.ContentType()))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Request = c.Request.WithContext(ContextWithResult(c.Request.Context(), res))
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	id := RequestIDFrom(c.Request.Context())
	if iss, ok := g.AsIssues(err); ok {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorPayload(id, iss))
		return
	}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, grammar.ErrUnknownSchema):
		status = http.StatusNotFound
	case errors.Is(err, ErrBackend):
		status = http.StatusBadGateway
	case errors.Is(err, ErrInvalidTarget):
		status = http.StatusBadRequest
	case errors.Is(err, ErrGatewayDisabled):
		status = http.StatusNotImplemented
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	c.AbortWithStatusJSON(status, gin.H{"request_id": id, "error": err.Error()})
}
