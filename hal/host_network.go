//go:build !tinygo

package hal

import (
	"io"
	"net"
	"net/http"
	"time"
)

const hostFetchLimit = 64 * 1024

// hostNetwork uses the desktop's network stack; it always reports a link.
type hostNetwork struct {
	client *http.Client
}

func newHostNetwork() *hostNetwork {
	return &hostNetwork{client: &http.Client{Timeout: 10 * time.Second}}
}

func (n *hostNetwork) Connected() bool { return true }
func (n *hostNetwork) SSID() string    { return "host" }
func (n *hostNetwork) RSSI() int       { return -50 }

func (n *hostNetwork) Get(url string) []byte {
	resp, err := n.client.Get(url)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, hostFetchLimit))
	if err != nil {
		return nil
	}
	return body
}

func (n *hostNetwork) Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}
