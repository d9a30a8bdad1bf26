// ABOUTME: Badger transaction wrapper that spills oversized writes.
// ABOUTME: Work past the txn size limit commits in chunks behind a repair marker.
package storage

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
)

// keyRepair is present while a spilled operation has not finished.
var keyRepair = []byte("meta/repair")

// spillTxn is a badger transaction that, when a write hits ErrTxnTooBig,
// commits what it holds and carries on in a fresh transaction. The first
// spill commits keyRepair on its own so a failure part way is detectable.
type spillTxn struct {
	src     txnSource
	cur     *badger.Txn
	spilled int
}

func beginSpill(src txnSource, update bool) (*spillTxn, error) {
	txn, err := src.begin(update)
	if err != nil {
		return nil, err
	}
	return &spillTxn{src: src, cur: txn}, nil
}

func (t *spillTxn) Get(key []byte) (*badger.Item, error) {
	return t.cur.Get(key)
}

func (t *spillTxn) NewIterator(opts badger.IteratorOptions) *badger.Iterator {
	return t.cur.NewIterator(opts)
}

func (t *spillTxn) Set(key, val []byte) error {
	return t.write(func(txn *badger.Txn) error { return txn.Set(key, val) })
}

func (t *spillTxn) Delete(key []byte) error {
	return t.write(func(txn *badger.Txn) error { return txn.Delete(key) })
}

func (t *spillTxn) write(op func(txn *badger.Txn) error) error {
	err := op(t.cur)
	if !errors.Is(err, badger.ErrTxnTooBig) {
		return err
	}
	if err := t.spill(); err != nil {
		return err
	}
	return op(t.cur)
}

func (t *spillTxn) spill() error {
	if t.spilled == 0 {
		if err := t.mark(); err != nil {
			return err
		}
	}
	if err := t.src.commit(t.cur); err != nil {
		return err
	}
	t.cur.Discard()
	next, err := t.src.begin(true)
	if err != nil {
		return err
	}
	t.cur = next
	t.spilled++
	return nil
}

func (t *spillTxn) mark() error {
	txn, err := t.src.begin(true)
	if err != nil {
		return err
	}
	defer txn.Discard()
	if err := txn.Set(keyRepair, []byte{1}); err != nil {
		return err
	}
	return t.src.commit(txn)
}

// commit finishes the transaction, clearing keyRepair when it spilled.
func (t *spillTxn) commit() error {
	if t.spilled > 0 {
		if err := t.Delete(keyRepair); err != nil {
			return err
		}
	}
	return t.src.commit(t.cur)
}

func (t *spillTxn) discard() {
	t.cur.Discard()
}

// Repairable is implemented by stores that may hold stale group indices
// after an operation that spanned several transactions failed part way.
type Repairable interface {
	NeedsRepair(ctx context.Context) (bool, error)
	MarkRepaired(ctx context.Context) error
}

// NeedsRepair reports whether a spilled operation was left unfinished.
func (s *BadgerStore) NeedsRepair(ctx context.Context) (bool, error) {
	var ok bool
	err := s.view(func(txn *spillTxn) error {
		var err error
		ok, err = exists(txn, keyRepair)
		return err
	})
	return ok, wrapErr("check repair marker", err)
}

// MarkRepaired clears the unfinished operation marker.
func (s *BadgerStore) MarkRepaired(ctx context.Context) error {
	return wrapErr("clear repair marker", s.update(ctx, func(txn *spillTxn) error {
		return txn.Delete(keyRepair)
	}))
}
