package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/pvandermeer/vosdns/internal/dns"
	"github.com/pvandermeer/vosdns/internal/pool"
)

// bufferPool recycles datagram read buffers. Each buffer holds the largest
// message the codec accepts.
var bufferPool = pool.NewBytes(dns.PacketSize)

// UDPServer handles DNS queries over UDP.
//
// Each datagram is handled in its own goroutine behind a concurrency
// semaphore; when the semaphore is full the datagram is dropped, which for
// DNS over UDP is the correct backpressure (clients retry).
type UDPServer struct {
	Logger         *slog.Logger  // optional
	Handler        *QueryHandler // query processor
	MaxConcurrency int           // maximum concurrent handlers

	mu   sync.Mutex
	conn *net.UDPConn
	wg   sync.WaitGroup
	sem  chan struct{}
}

// Run listens on addr and serves until ctx is canceled.
func (s *UDPServer) Run(ctx context.Context, addr string) error {
	conn, err := listenUDP(ctx, addr)
	if err != nil {
		return err
	}
	return s.RunOnConn(ctx, conn)
}

// RunOnConn serves on an existing UDP connection. Useful for tests and for
// callers managing the socket themselves.
func (s *UDPServer) RunOnConn(ctx context.Context, conn *net.UDPConn) error {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	defer conn.Close()

	maxConc := s.MaxConcurrency
	if maxConc <= 0 {
		maxConc = 1
	}
	s.sem = make(chan struct{}, maxConc)

	for {
		if ctx.Err() != nil {
			break
		}

		payload, remote, err := s.receivePacket(ctx, conn)
		if err != nil {
			// A closed socket means Stop ran; the loop is done.
			if errors.Is(err, net.ErrClosed) {
				break
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			if s.Logger != nil {
				s.Logger.Warn("udp read failed", "error", err)
			}
			continue
		}
		if payload == nil {
			continue
		}

		if !s.tryAcquireSemaphore() {
			continue // at max concurrency, drop the datagram
		}

		s.wg.Add(1)
		go s.handleRequest(ctx, conn, payload, remote)
	}

	return nil
}

// receivePacket reads one datagram using a pooled buffer. The short read
// deadline keeps the loop responsive to shutdown; deadline expiry surfaces
// as a timeout error for the caller to swallow.
func (s *UDPServer) receivePacket(ctx context.Context, conn *net.UDPConn) ([]byte, *net.UDPAddr, error) {
	bufPtr := bufferPool.Get()
	buf := *bufPtr
	defer bufferPool.Put(bufPtr)

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	n, remote, err := conn.ReadFromUDP(buf)
	if err != nil {
		return nil, nil, err
	}
	if remote == nil || ctx.Err() != nil {
		return nil, nil, nil
	}

	data := make([]byte, n)
	copy(data, buf[:n])
	return data, remote, nil
}

func (s *UDPServer) tryAcquireSemaphore() bool {
	select {
	case s.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *UDPServer) handleRequest(ctx context.Context, conn *net.UDPConn, payload []byte, peer *net.UDPAddr) {
	defer s.wg.Done()
	defer func() { <-s.sem }()

	if s.Handler == nil {
		return
	}

	respBytes := s.Handler.Handle(ctx, peer.String(), payload)
	if len(respBytes) == 0 {
		return
	}
	_, _ = conn.WriteToUDP(respBytes, peer)
}

// Stop shuts the server down, waiting up to timeout for in-flight requests.
func (s *UDPServer) Stop(timeout time.Duration) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	_ = conn.Close()

	if timeout <= 0 {
		s.wg.Wait()
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("udp server: timeout waiting for in-flight requests")
	}
}

// listenUDP opens the socket with SO_REUSEPORT so multiple processes can
// share the port during rolling restarts.
func listenUDP(ctx context.Context, addr string) (*net.UDPConn, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			return c.Control(func(fd uintptr) {
				_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
		},
	}
	pc, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return nil, err
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		pc.Close()
		return nil, errors.New("listener is not a UDP connection")
	}
	return conn, nil
}
