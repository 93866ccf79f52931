package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/streetmangler/internal/logger"
	"github.com/bastiangx/streetmangler/internal/utils"
	"github.com/bastiangx/streetmangler/pkg/aggregator"
	"github.com/bastiangx/streetmangler/pkg/config"
	"github.com/bastiangx/streetmangler/pkg/database"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// MaxDistance bounds the spelling distance a client may ask for.
const MaxDistance = 3

// Server answers check and completion requests against a database.
type Server struct {
	db       *database.Database
	cfg      config.ServerConfig
	distance int

	dec *msgpack.Decoder
	w   *bufio.Writer
	enc *msgpack.Encoder
	log *log.Logger

	requests int
}

// NewServer creates a server using stdin/stdout for IPC. distance is used
// for checks that do not carry one.
func NewServer(db *database.Database, cfg config.ServerConfig, distance int) *Server {
	return NewServerIO(db, cfg, distance, os.Stdin, os.Stdout)
}

// NewServerIO creates a server on the given streams.
func NewServerIO(db *database.Database, cfg config.ServerConfig, distance int, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		db:       db,
		cfg:      cfg,
		distance: distance,
		dec:      msgpack.NewDecoder(r),
		w:        bw,
		enc:      msgpack.NewEncoder(bw),
		log:      logger.New("server"),
	}
}

// Requests returns the number of messages handled so far.
func (s *Server) Requests() int {
	return s.requests
}

// Start serves requests until the input is closed.
func (s *Server) Start() error {
	s.log.Debug("Starting server")

	for {
		raw, err := s.dec.DecodeRaw()
		if errors.Is(err, io.EOF) {
			s.log.Debugf("Input closed after %d requests", s.requests)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading request: %w", err)
		}

		s.requests++
		if err := s.handle(raw); err != nil {
			return err
		}
	}
}

func (s *Server) handle(raw msgpack.RawMessage) error {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.log.Errorf("Unmarshaling request: %v", err)
		return s.sendError("", "invalid msgpack request", 400)
	}

	action := req.Action
	if action == "" {
		switch {
		case req.Name != "":
			action = ActionCheck
		case req.Prefix != "":
			action = ActionComplete
		}
	}

	switch action {
	case ActionCheck:
		return s.handleCheck(req)
	case ActionComplete:
		return s.handleComplete(req)
	case ActionStats:
		return s.send(StatsResponse{ID: req.ID, Locale: s.db.Locale().Name(), Stats: s.db.Stats()})
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	case "":
		return s.sendError(req.ID, "missing action", 400)
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", action), 400)
	}
}

func (s *Server) handleCheck(req Request) error {
	if req.Name == "" {
		return s.sendError(req.ID, "missing 'n' parameter", 400)
	}
	if !utils.IsValidName(req.Name, 0) {
		return s.sendError(req.ID, "invalid name", 400)
	}
	if !utils.IsValidName(req.Name, s.cfg.MaxNameLength) {
		return s.sendError(req.ID,
			fmt.Sprintf("name exceeds maximum length of %d characters", s.cfg.MaxNameLength), 400)
	}

	distance := s.distance
	if req.Distance != nil {
		distance = *req.Distance
	}
	if distance < 0 || distance > MaxDistance {
		return s.sendError(req.ID, fmt.Sprintf("distance must be between 0 and %d", MaxDistance), 400)
	}

	start := time.Now()
	res := aggregator.Classify(s.db, req.Name, distance)
	elapsed := time.Since(start)

	suggestions := res.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	s.log.Debugf("check %q: %s %v", req.Name, res.Class, suggestions)
	return s.send(CheckResponse{
		ID:          req.ID,
		Class:       res.Class.String(),
		Suggestions: suggestions,
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleComplete(req Request) error {
	if req.Prefix == "" {
		return s.sendError(req.ID, "missing 'p' parameter", 400)
	}
	if !utils.IsValidName(req.Prefix, s.cfg.MaxNameLength) {
		return s.sendError(req.ID,
			fmt.Sprintf("prefix exceeds maximum length of %d characters", s.cfg.MaxNameLength), 400)
	}

	limit := req.Limit
	if limit < 1 {
		limit = s.cfg.CompletionLimit
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	start := time.Now()
	names := s.db.Complete(req.Prefix, limit)
	elapsed := time.Since(start)

	if names == nil {
		names = []string{}
	}
	return s.send(CompletionResponse{
		ID:          req.ID,
		Suggestions: names,
		Count:       len(names),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// send encodes one response and flushes it to the client.
func (s *Server) send(response any) error {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Marshaling response: %v", err)
		return fmt.Errorf("writing response: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	s.log.Debugf("request %q failed: %s", id, message)
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
