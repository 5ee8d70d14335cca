package scan

import (
	"errors"
	"fmt"
	"net"
)

var (
	ErrInvalidStartPort = errors.New("Must be greater than 0")
	ErrInvalidEndPort   = errors.New("Must be less than or equal to 65535")
	ErrInvalidAddress   = errors.New("invalid IP address")
)

// ScanRequest describes one scan: a single host and the half-open port range [FromPort, ToPort).
type ScanRequest struct {
	Host     net.IP
	FromPort uint16
	ToPort   uint16
}

// Size is the number of ports the request covers. An inverted or empty range has size 0.
func (r ScanRequest) Size() int {
	if r.FromPort >= r.ToPort {
		return 0
	}
	return int(r.ToPort) - int(r.FromPort)
}

// Contains reports whether port lies inside the scanned range.
func (r ScanRequest) Contains(port uint16) bool {
	return port >= r.FromPort && port < r.ToPort
}

// RequestConfig holds the values that bound and default a ScanRequest.
type RequestConfig struct {
	FallbackIP net.IP
	MaxPort    uint16
}

func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		FallbackIP: net.IPv4(127, 0, 0, 1),
		MaxPort:    65535,
	}
}

// NewRequest validates raw operator input and builds a ScanRequest.
// An empty address selects the fallback IP.
func (c RequestConfig) NewRequest(address string, fromPort int, toPort int) (ScanRequest, error) {

	host := c.FallbackIP
	if address != "" {
		host = net.ParseIP(address)
		if host == nil {
			return ScanRequest{}, fmt.Errorf("%w: '%s'", ErrInvalidAddress, address)
		}
	}

	if fromPort <= 0 || fromPort > int(c.MaxPort) {
		return ScanRequest{}, fmt.Errorf("start port %d: %w", fromPort, ErrInvalidStartPort)
	}

	if toPort <= 0 || toPort > int(c.MaxPort) {
		return ScanRequest{}, fmt.Errorf("end port %d: %w", toPort, ErrInvalidEndPort)
	}

	return ScanRequest{
		Host:     host,
		FromPort: uint16(fromPort),
		ToPort:   uint16(toPort),
	}, nil
}
