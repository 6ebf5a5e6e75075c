package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"feedbackapp/internal/observability"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// ResponseValidationMiddleware validates JSON responses of the /v1 API
// against their schemas. Routes without a schema pass through untouched.
// A response that fails validation is replaced with a 500 so a contract
// break never reaches clients silently.
func ResponseValidationMiddleware(logger *observability.Logger) gin.HandlerFunc {
	schemaLoader, err := AutoLoadSchemas()
	if err != nil {
		logger.Error(context.Background(), "Failed to load response schemas, validation disabled", err)
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		schemaName := schemaLoader.DetermineSchemaFromPath(c.Request.URL.Path, c.Request.Method)
		if schemaName == "" {
			c.Next()
			return
		}

		ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "response_validation",
			attribute.String("schema.name", schemaName))
		defer span.End()

		originalWriter := c.Writer
		capture := &responseCaptureWriter{ResponseWriter: originalWriter, body: &bytes.Buffer{}}
		c.Writer = capture

		c.Next()

		c.Writer = originalWriter
		statusCode := capture.Status()

		// Only 2xx responses carry a schema-bound payload
		if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
			var responseData interface{}
			if err := json.Unmarshal(capture.body.Bytes(), &responseData); err != nil {
				span.SetAttributes(attribute.String("validation.outcome", "json_parse_failed"))
				logger.Error(ctx, "Failed to parse JSON response", err, map[string]interface{}{
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
				})
			} else if err := schemaLoader.ValidateData(responseData, schemaName); err != nil {
				span.SetAttributes(attribute.String("validation.outcome", "validation_failed"))
				logger.Error(ctx, "Response validation failed", err, map[string]interface{}{
					"method":      c.Request.Method,
					"path":        c.Request.URL.Path,
					"schema_name": schemaName,
				})
				c.Writer.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(c.Writer).Encode(gin.H{
					"error":  "Response validation failed",
					"schema": schemaName,
				})
				return
			} else {
				span.SetAttributes(attribute.String("validation.outcome", "validation_passed"))
			}
		}

		// Replay the buffered response
		c.Writer.WriteHeader(statusCode)
		_, _ = c.Writer.Write(capture.body.Bytes())
	}
}

// responseCaptureWriter buffers the response body so it can be validated
// before anything reaches the wire.
type responseCaptureWriter struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *responseCaptureWriter) WriteHeader(statusCode int) {
	w.status = statusCode
}

func (w *responseCaptureWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *responseCaptureWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *responseCaptureWriter) Status() int {
	if w.status != 0 {
		return w.status
	}
	return http.StatusOK
}
