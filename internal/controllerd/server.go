// Package controllerd implements the controller process: the raw-TCP,
// codec-framed control channel agents pull from and report to, the HTTP
// admin API, and persistence of both the agent database and per-task event
// logs.
package controllerd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"fleetcron.dev/fleetcron/internal/codec"
	"fleetcron.dev/fleetcron/internal/controllerd/agentdb"
	"fleetcron.dev/fleetcron/internal/metrics"
	"fleetcron.dev/fleetcron/internal/wire"
)

// Server is the controller's TCP control-channel listener. Accept/handle
// structure is adapted from a Unix-domain-socket JSON-RPC listener in the
// style this codebase otherwise uses for local admin channels — tracked
// connections in a map, a per-connection goroutine, and a graceful Stop
// that closes the listener and every tracked connection before returning.
type Server struct {
	addr   string
	aesKey codec.Key
	db     *agentdb.DB
	logs   *EventLogStore

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
	stopped  bool
}

// NewServer constructs a Server listening on addr.
func NewServer(addr string, key codec.Key, db *agentdb.DB, logs *EventLogStore) *Server {
	return &Server{
		addr:   addr,
		aesKey: key,
		db:     db,
		logs:   logs,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Start listens on s.addr and blocks, accepting connections, until ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("controllerd: listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	slog.Info("controller listening", "addr", s.addr)

	go s.acceptLoop(ctx)

	<-ctx.Done()
	slog.Info("controller stopping", "reason", ctx.Err())
	return s.Stop()
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			stopped := s.stopped
			s.mu.Unlock()
			if stopped {
				return
			}
			slog.Error("controller accept failed", "error", err)
			continue
		}

		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true)
		}

		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	remote := conn.RemoteAddr()
	log := slog.With("remote", remote)
	log.Info("new agent connection")

	metrics.ControllerConnectionsActive.Inc()
	defer metrics.ControllerConnectionsActive.Dec()

	var buf bytes.Buffer
	chunk := make([]byte, 4096)

	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err != nil {
			log.Info("agent connection closed")
			return
		}

		for buf.Len() > codec.HeaderLen {
			var req wire.Request
			derr := codec.Decode(&buf, s.aesKey, &req)
			if derr == codec.ErrNotEnoughData {
				break
			}
			if derr != nil {
				log.Error("invalid data from client")
				return
			}

			resp := s.handleRequest(log, req)

			var out bytes.Buffer
			if err := codec.Encode(resp, &out, s.aesKey); err != nil {
				log.Error("encode response failed", "error", err)
				return
			}
			if _, err := conn.Write(out.Bytes()); err != nil {
				log.Error("write response failed", "error", err)
				return
			}
		}
	}
}

// Stop closes the listener and every tracked connection, then waits for all
// handler goroutines to return.
func (s *Server) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	if s.listener != nil {
		s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	slog.Info("controller stopped")
	return nil
}
