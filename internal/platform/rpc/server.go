package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// readTimeout is the idle read deadline applied to each connection.
	readTimeout = 30 * time.Second

	// writeTimeout bounds a single reply write.
	writeTimeout = 10 * time.Second
)

// Server accepts framed request packets over TCP and dispatches them to a
// Router. Each connection is served by its own goroutine; requests on one
// connection are handled in order.
type Server struct {
	addr     string
	router   *Router
	logger   zerolog.Logger
	listener net.Listener
	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	done     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewServer creates a server that will listen on addr and dispatch to router.
func NewServer(addr string, router *Router, logger zerolog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		router: router,
		logger: logger.With().Str("component", "rpc").Logger(),
		conns:  make(map[net.Conn]struct{}),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins listening. It is non-blocking: the accept loop runs in a
// background goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("rpc: failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop()
	}()

	return nil
}

// Stop closes the listener and every tracked connection, cancels in-flight
// request contexts and waits for all goroutines to exit.
func (s *Server) Stop() error {
	close(s.done)
	s.cancel()

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

// Addr returns the listener address, useful when started on port 0.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			s.logger.Error().Err(err).Msg("accept failed")
			return
		}

		s.trackConn(conn, true)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.trackConn(conn, false)
			defer conn.Close()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) trackConn(conn net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

// handleConnection reads frames from conn, dispatches each packet and writes
// back replies for packets that carry an id.
func (s *Server) handleConnection(conn net.Conn) {
	buf := make([]byte, 0, 4096)
	readBuf := make([]byte, 4096)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))

		n, err := conn.Read(readBuf)
		if n > 0 {
			buf = append(buf, readBuf[:n]...)

			for {
				body, rest, found, ferr := UnframeMessage(buf)
				if ferr != nil {
					s.logger.Warn().Err(ferr).Str("remote", conn.RemoteAddr().String()).Msg("dropping connection")
					return
				}
				if !found {
					break
				}
				buf = rest
				s.processPacket(conn, body)
			}
		}

		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				if len(buf) == 0 {
					return
				}
				continue
			}
			return
		}
	}
}

func (s *Server) processPacket(conn net.Conn, body []byte) {
	pkt, err := DecodePacket(body)
	if err != nil {
		s.logger.Warn().Err(err).Msg("invalid packet")
		return
	}

	req := &Request{
		ID:      pkt.ID,
		Pattern: pkt.PatternName(),
		Data:    pkt.Data,
		Token:   pkt.Token,
	}
	result, herr := s.router.Dispatch(s.ctx, req)

	// Packets without an id are events: nobody waits for a reply.
	if pkt.ID == "" {
		return
	}

	reply := &Packet{ID: pkt.ID, IsDisposed: true}
	if herr != nil {
		reply.Err = encodeError(herr)
	} else {
		raw, merr := json.Marshal(result)
		if merr != nil {
			s.logger.Error().Err(merr).Str("pattern", req.Pattern).Msg("encode response")
			reply.Err = encodeError(merr)
		} else {
			reply.Response = raw
		}
	}

	framed, err := EncodePacket(reply)
	if err != nil {
		s.logger.Error().Err(err).Msg("encode reply")
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := conn.Write(framed); err != nil {
		s.logger.Warn().Err(err).Str("pattern", req.Pattern).Msg("write reply")
	}
}
