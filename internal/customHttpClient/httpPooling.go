package customHttpClient

import (
	"net/http"

	"github.com/akolanti/DocIntel/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// GetPooledClient is shared by the OpenAI llm and embedding clients so
// repeated calls reuse connections instead of paying the handshake each time.
func GetPooledClient() *http.Client {
	return &http.Client{Transport: customTransport}
}
