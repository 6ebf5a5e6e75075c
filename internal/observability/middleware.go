package observability

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GinMiddlewareWithErrorHandling creates OpenTelemetry middleware that marks
// failed requests on the request span.
func GinMiddlewareWithErrorHandling(serviceName string) gin.HandlerFunc {
	otelMiddleware := otelgin.Middleware(serviceName)

	return func(c *gin.Context) {
		otelMiddleware(c)

		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if span == nil {
			return
		}
		statusCode := c.Writer.Status()
		if statusCode < 400 {
			return
		}

		errorMsg := "client error"
		if statusCode >= 500 {
			errorMsg = "server error"
		}
		if len(c.Errors) > 0 {
			errorMsg = c.Errors.Last().Error()
		}

		span.SetStatus(codes.Error, errorMsg)
		span.SetAttributes(
			attribute.Bool("error", true),
			attribute.Int("http.status_code", statusCode),
			attribute.String("error.message", errorMsg),
		)
	}
}
