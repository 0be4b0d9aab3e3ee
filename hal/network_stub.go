package hal

import "net"

// nullNetwork is a permanently disconnected link.
type nullNetwork struct{}

func (nullNetwork) Connected() bool   { return false }
func (nullNetwork) SSID() string      { return "" }
func (nullNetwork) RSSI() int         { return 0 }
func (nullNetwork) Get(string) []byte { return nil }

func (nullNetwork) Listen(addr string) (net.Listener, error) {
	_ = addr
	return nil, ErrNotImplemented
}
