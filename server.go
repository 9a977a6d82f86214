package main

import (
	"fmt"
	"net"
	"time"

	"github.com/elijahnyp/casa_controller/hw"
	"github.com/elijahnyp/casa_controller/state"
	"github.com/elijahnyp/casa_controller/util"
)

const listenAttempts = 5

// maxRequestSize bounds the single read of an inbound request. Commands
// live in the first request line, so anything past this is noise.
const maxRequestSize = 2048

// Server owns the request surface: one accepted connection, at most one
// request, one status page response, close. No keep-alive.
type Server struct {
	store    *state.Store
	router   *Router
	renderer *PageRenderer
	temp     *hw.TemperatureReader
	ln       net.Listener
	onChange func()
}

func NewServer(store *state.Store, router *Router, renderer *PageRenderer, temp *hw.TemperatureReader) *Server {
	return &Server{store: store, router: router, renderer: renderer, temp: temp}
}

// OnChange registers a callback fired after a request mutated state. Used
// to nudge the display collaborators without waiting for the next tick.
func (s *Server) OnChange(f func()) {
	s.onChange = f
}

// Start binds the listener, retrying with backoff before giving up. A
// listener that cannot be bound is fatal to the caller.
func (s *Server) Start() error {
	addr := util.Config.GetString("listen_addr")
	var err error
	for attempt := 1; attempt <= listenAttempts; attempt++ {
		s.ln, err = net.Listen("tcp", addr)
		if err == nil {
			util.Logger.Info().Msgf("listening on %s", addr)
			go s.serve()
			return nil
		}
		util.Logger.Warn().Msgf("listen on %s failed (attempt %d/%d): %v", addr, attempt, listenAttempts, err)
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	return fmt.Errorf("unable to listen on %s: %w", addr, err)
}

// Addr reports the bound address, useful when listen_addr picks port 0.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			util.Logger.Debug().Msgf("accept loop ending: %v", err)
			return
		}
		go s.handleConn(conn)
	}
}

// handleConn runs one request/response exchange. The payload copy and the
// response buffer are scoped to this call; every exit path closes the
// connection.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	readTimeout := time.Duration(util.Config.GetInt("read_timeout_ms")) * time.Millisecond
	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		util.Logger.Debug().Msgf("set read deadline failed: %v", err)
		return
	}

	buf := make([]byte, maxRequestSize)
	n, err := conn.Read(buf)
	if n == 0 {
		// peer closed or timed out before sending anything, not an error
		if err != nil {
			util.Logger.Debug().Msgf("connection closed without payload: %v", err)
		}
		return
	}

	payload := string(buf[:n])
	util.Logger.Debug().Msgf("request: %.80s", payload)

	matched := s.router.Route(payload, s.store)
	if matched != "" {
		util.Logger.Info().Msgf("command %s applied", matched)
		if s.onChange != nil {
			s.onChange()
		}
	}

	tempC, err := s.temp.ReadC()
	if err != nil {
		util.Logger.Warn().Msgf("temperature read failed, reporting zero: %v", err)
		tempC = 0
	}

	response, err := s.renderer.RenderResponse(s.store.Snapshot(), tempC)
	if err != nil {
		// capacity invariant broken, nothing safe to send
		util.Logger.Error().Msgf("response build failed: %v", err)
		return
	}

	if _, err := conn.Write(response); err != nil {
		util.Logger.Debug().Msgf("response write failed: %v", err)
	}
}

// Stop closes the listener. In-flight connections finish on their own.
func (s *Server) Stop() {
	if s.ln != nil {
		s.ln.Close()
	}
}
