// ABOUTME: MCP server setup for the fitlog workout log.
// ABOUTME: Wraps the MCP server with storage, group maintenance and undo tokens.
package mcp

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/events"
	"github.com/harperreed/fitlog/internal/groups"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/scroll"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// maxUndoTokens bounds how many deletes can still be undone.
const maxUndoTokens = 50

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	maint     *groups.Maintainer
	bus       *events.Bus
	scrollCfg scroll.Config
	log       *zap.Logger

	// sessMu serializes tool calls that use the browse session.
	sessMu  sync.Mutex
	session *browseSession

	mu        sync.Mutex
	undo      map[string]undoEntry
	undoOrder []string
}

// undoEntry is a pending undo and the session whose cache it refers to.
type undoEntry struct {
	ctx     *scroll.UndoContext
	session uuid.UUID
}

// Option configures a Server.
type Option func(*Server)

// WithBus publishes create and delete notifications on bus.
func WithBus(bus *events.Bus) Option {
	return func(s *Server) {
		s.bus = bus
	}
}

// WithScrollConfig sets the page sizes used when listing records.
func WithScrollConfig(cfg scroll.Config) Option {
	return func(s *Server) {
		s.scrollCfg = cfg
	}
}

// WithLogger sets the server logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// NewServer creates a new MCP server over repo, writing through maint.
func NewServer(repo storage.Repository, maint *groups.Maintainer, opts ...Option) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fitlog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		maint:     maint,
		scrollCfg: scroll.DefaultConfig(),
		log:       zap.NewNop(),
		undo:      make(map[string]undoEntry),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) newEngine(filter models.Filter) *scroll.Engine {
	return scroll.New(s.repo, s.maint, filter, scroll.WithConfig(s.scrollCfg), scroll.WithLogger(s.log))
}

func (s *Server) publish(ctx context.Context, kind events.Kind, id int64) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, events.Event{Kind: kind, RecordID: id}); err != nil {
		s.log.Warn("event not published", zap.Stringer("kind", kind), zap.Error(err))
	}
}

// rememberUndo stores undo and returns its token, forgetting the oldest
// token past maxUndoTokens.
func (s *Server) rememberUndo(undo *scroll.UndoContext, session uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.undo[token] = undoEntry{ctx: undo, session: session}
	s.undoOrder = append(s.undoOrder, token)
	if len(s.undoOrder) > maxUndoTokens {
		delete(s.undo, s.undoOrder[0])
		s.undoOrder = s.undoOrder[1:]
	}
	return token
}

// takeUndo removes and returns the undo entry for token.
func (s *Server) takeUndo(token string) (undoEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	undo, ok := s.undo[token]
	if !ok {
		return undoEntry{}, false
	}
	delete(s.undo, token)
	for i, t := range s.undoOrder {
		if t == token {
			s.undoOrder = append(s.undoOrder[:i], s.undoOrder[i+1:]...)
			break
		}
	}
	return undo, true
}
