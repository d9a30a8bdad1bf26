// ABOUTME: Charm Cloud backed store built on the badger record layout.
// ABOUTME: Transactions use charm's managed timestamps and sync after commit.
package storage

import (
	"fmt"
	"os"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

const (
	charmDBName = "fitlog"
	charmHost   = "charm.2389.dev"
)

type charmSource struct {
	kv *kv.KV
}

func (c charmSource) begin(update bool) (*badger.Txn, error) {
	return c.kv.NewTransaction(update)
}

func (c charmSource) commit(txn *badger.Txn) error {
	return c.kv.Commit(txn, nil)
}

func (c charmSource) readOnly() bool {
	return c.kv.IsReadOnly()
}

func (c charmSource) close() error {
	return c.kv.Close()
}

// CharmStore is a BadgerStore whose data syncs with Charm Cloud.
type CharmStore struct {
	*BadgerStore
	kv       *kv.KV
	autoSync bool
}

// OpenCharm opens the fitlog KV database, falling back to read-only mode
// when another process holds the lock.
func OpenCharm(log *zap.Logger) (*CharmStore, error) {
	if os.Getenv("CHARM_HOST") == "" {
		if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
			return nil, fmt.Errorf("set charm host: %w", err)
		}
	}

	db, err := kv.OpenWithDefaultsFallback(charmDBName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	cs := &CharmStore{
		BadgerStore: newBadgerStore(charmSource{kv: db}, log),
		kv:          db,
		autoSync:    true,
	}
	cs.BadgerStore.afterCommit = cs.syncIfEnabled

	// Pull remote data on startup (skip in read-only mode)
	if !db.IsReadOnly() {
		if err := db.Sync(); err != nil {
			cs.log.Warn("initial charm sync failed", zap.Error(err))
		}
	}

	return cs, nil
}

func (c *CharmStore) syncIfEnabled() error {
	if c.autoSync && !c.kv.IsReadOnly() {
		return c.kv.Sync()
	}
	return nil
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *CharmStore) SetAutoSync(enabled bool) {
	c.autoSync = enabled
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *CharmStore) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *CharmStore) Sync() error {
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *CharmStore) Reset() error {
	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	return c.kv.Reset()
}

// ID returns the Charm user ID for the current account.
func (c *CharmStore) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}
