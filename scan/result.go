package scan

import (
	"fmt"
	"net"
	"strings"
	"time"
)

const noOpenPorts = "No open ports found"

type Result struct {
	Host     net.IP
	Open     []uint16
	Duration time.Duration
}

func NewResult(host net.IP) Result {
	return Result{
		Host: host,
		Open: []uint16{},
	}
}

// Lines renders one "<port> is Open" line per open port, or a single line saying none were found.
func (r Result) Lines() []string {

	if len(r.Open) == 0 {
		return []string{noOpenPorts}
	}

	lines := make([]string, 0, len(r.Open))
	for _, port := range r.Open {
		lines = append(lines, fmt.Sprintf("%d is Open", port))
	}
	return lines
}

func (r Result) String() string {
	return strings.Join(r.Lines(), "\n") + "\n"
}
