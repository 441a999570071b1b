package observability

import (
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// TraceHandler wraps h so every request runs inside an X-Ray segment
// named after the service.
func TraceHandler(serviceName string, h http.Handler) http.Handler {
	return xray.Handler(xray.NewFixedSegmentNamer(serviceName), h)
}
