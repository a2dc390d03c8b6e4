package customHttpClient

import (
	"net"
	"net/http"
	"time"

	"github.com/akolanti/kbchat/internal/config"
)

// NewPooledClient returns a client on a keep-alive transport shared by the bedrock, openai and gemini sdks.
// A zero timeout leaves the deadline to the caller's context.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: newTransport(),
		Timeout:   timeout,
	}
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}
