package scan

import (
	"context"
	"fmt"
	"io"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// DefaultTimeout bounds a single connection attempt.
const DefaultTimeout = 3 * time.Second

// ConnectScanner finds open ports with full TCP handshakes, one goroutine per port.
// A timeout of zero leaves the connect deadline to the operating system.
// A parallelism of zero or less launches every probe at once.
type ConnectScanner struct {
	timeout     time.Duration
	maxRoutines int
	dialer      Dialer
}

func NewConnectScanner(timeout time.Duration, parallelism int) *ConnectScanner {
	return &ConnectScanner{
		timeout:     timeout,
		maxRoutines: parallelism,
		dialer:      &net.Dialer{},
	}
}

// WithDialer replaces the dialer used for probes.
func (s *ConnectScanner) WithDialer(dialer Dialer) *ConnectScanner {
	s.dialer = dialer
	return s
}

// Scan probes every port in req and returns the open ones in ascending order.
// Probe failures of any kind count as closed.
func (s *ConnectScanner) Scan(ctx context.Context, req ScanRequest) Result {

	startTime := time.Now()

	logrus.Debugf("Scanning %d ports on %s...", req.Size(), req.Host)

	openChan := make(chan uint16)

	go s.dispatch(ctx, req, openChan)

	result := s.collect(req.Host, openChan)
	result.Duration = time.Since(startTime)

	logrus.Debugf("Found %d open ports on %s in %s", len(result.Open), req.Host, result.Duration)

	return result
}

// dispatch launches one probe per port and closes openChan once every probe has returned.
func (s *ConnectScanner) dispatch(ctx context.Context, req ScanRequest, openChan chan<- uint16) {

	wg := &sync.WaitGroup{}

	var sem *semaphore.Weighted
	if s.maxRoutines > 0 {
		sem = semaphore.NewWeighted(int64(s.maxRoutines))
	}

	for port := req.FromPort; port < req.ToPort; port++ {
		if sem != nil {
			if err := sem.Acquire(ctx, 1); err != nil {
				break
			}
		}

		wg.Add(1)
		go func(p uint16) {
			defer wg.Done()
			if sem != nil {
				defer sem.Release(1)
			}

			if s.probe(ctx, req.Host, p) {
				openChan <- p
			}
		}(port)
	}

	wg.Wait()
	close(openChan)
}

func (s *ConnectScanner) collect(host net.IP, openChan <-chan uint16) Result {

	result := NewResult(host)

	for port := range openChan {
		logrus.Debugf("Port %d is open on %s", port, host)
		result.Open = append(result.Open, port)
	}

	// arrival order depends on network timing
	sort.Slice(result.Open, func(i, j int) bool {
		return result.Open[i] < result.Open[j]
	})

	return result
}

func (s *ConnectScanner) probe(ctx context.Context, host net.IP, port uint16) bool {

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	addr := net.JoinHostPort(host.String(), strconv.Itoa(int(port)))

	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func (s *ConnectScanner) OutputResult(w io.Writer, result Result) error {
	_, err := fmt.Fprint(w, result.String())
	return err
}
