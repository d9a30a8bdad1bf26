// ABOUTME: Live browse session behind list_records.
// ABOUTME: Tool writes patch its cache so paging offsets stay aligned with the store.
package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/scroll"
	"github.com/harperreed/fitlog/internal/storage"
	"go.uber.org/zap"
)

// browseSession is the scroll cache a client pages through with
// list_records. Listing from offset 0 starts a new one.
type browseSession struct {
	key    string
	engine *scroll.Engine
	// stale is set once a write may have moved cached group indices.
	stale bool
}

func filterKey(f models.Filter) string {
	return fmt.Sprint(f.IDs())
}

// browse returns the live session for filter, replacing it when the filter
// differs or restart is set. Caller must hold s.sessMu.
func (s *Server) browse(filter models.Filter, restart bool) *browseSession {
	key := filterKey(filter)
	if s.session != nil && s.session.key == key && !restart {
		return s.session
	}
	s.closeSession()
	s.session = &browseSession{key: key, engine: s.newEngine(filter)}
	s.log.Debug("browse session started",
		zap.String("session", s.session.engine.SessionID().String()),
		zap.Int64s("exercises", filter.IDs()))
	return s.session
}

// writeEngine returns the engine a tool write goes through: the live
// session when there is one, else a throwaway engine closed by release.
// Caller must hold s.sessMu.
func (s *Server) writeEngine() (engine *scroll.Engine, release func()) {
	if s.session != nil {
		s.session.stale = true
		return s.session.engine, func() {}
	}
	e := s.newEngine(nil)
	return e, e.Close
}

// closeSession ends the live session. Caller must hold s.sessMu.
func (s *Server) closeSession() {
	if s.session == nil {
		return
	}
	s.session.engine.Close()
	s.session = nil
}

// Close ends the live browse session.
func (s *Server) Close() {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	s.closeSession()
}

// sessionID returns the live session's ID, or uuid.Nil.
// Caller must hold s.sessMu.
func (s *Server) sessionID() uuid.UUID {
	if s.session == nil {
		return uuid.Nil
	}
	return s.session.engine.SessionID()
}

// freshGroups rereads records whose cached group index may be out of date.
// Records deleted meanwhile are dropped.
func (s *Server) freshGroups(ctx context.Context, records []*models.Record) ([]*models.Record, error) {
	out := make([]*models.Record, 0, len(records))
	for _, r := range records {
		fresh, err := s.repo.GetByID(ctx, r.ID)
		if storage.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, fresh)
	}
	return out, nil
}
