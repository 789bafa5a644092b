package llm

import (
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const dialKeepAlive = 30 * time.Second

// NewHTTPClient returns a client whose connection attempts are bounded by
// connectTimeout and whose whole exchange, body included, is bounded by
// requestTimeout.
func NewHTTPClient(connectTimeout, requestTimeout time.Duration) *http.Client {
	transport := cleanhttp.DefaultPooledTransport()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: dialKeepAlive,
	}).DialContext

	return &http.Client{
		Transport: transport,
		Timeout:   requestTimeout,
	}
}
