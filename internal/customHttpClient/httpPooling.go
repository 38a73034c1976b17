package customHttpClient

import (
	"net/http"
	"time"

	"github.com/akolanti/ChatPDF/internal/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// one pool for every outbound call to the inference and embedding servers
var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// NewClient shares the pooled transport and traces every request. timeout
// bounds the whole exchange so a dead endpoint cannot hang a turn.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(customTransport),
		Timeout:   timeout,
	}
}
