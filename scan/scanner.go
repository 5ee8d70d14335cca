package scan

import (
	"context"
	"io"
	"net"
)

type Scanner interface {
	Scan(ctx context.Context, req ScanRequest) Result
	OutputResult(w io.Writer, result Result) error
}

// Dialer opens TCP connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}
