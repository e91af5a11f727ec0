package transport

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/net/http/httpproxy"
)

// HandshakeTimeout bounds the time spent establishing the TCP connection and
// WebSocket upgrade.
const HandshakeTimeout = 60 * time.Second

// Dial opens a WebSocket connection to brainURL, presenting accessKey as a
// bearer Authorization header, honoring the environment's proxy
// configuration (http_proxy/https_proxy/no_proxy, with all_proxy used for
// whichever of http_proxy/https_proxy is unset).
func Dial(ctx context.Context, brainURL, accessKey string) (*websocket.Conn, error) {
	proxyCfg := httpproxy.FromEnvironment()
	allProxy := os.Getenv("ALL_PROXY")
	if allProxy == "" {
		allProxy = os.Getenv("all_proxy")
	}
	if proxyCfg.HTTPProxy == "" {
		proxyCfg.HTTPProxy = allProxy
	}
	if proxyCfg.HTTPSProxy == "" {
		proxyCfg.HTTPSProxy = allProxy
	}

	dialer := &websocket.Dialer{
		HandshakeTimeout: HandshakeTimeout,
		Proxy: func(req *http.Request) (*url.URL, error) {
			return proxyCfg.ProxyFunc()(req.URL)
		},
	}

	header := http.Header{}
	if accessKey != "" {
		header.Set("Authorization", accessKey)
	}

	conn, _, err := dialer.DialContext(ctx, brainURL, header)
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: err}
	}
	return conn, nil
}
