package pebblestore

import (
	"errors"
	"time"

	"github.com/cockroachdb/pebble"
)

// ErrTxClosed is returned when a committed or rolled back transaction is used.
var ErrTxClosed = errors.New("pebblestore: transaction closed")

// Tx is a read-your-writes transaction. Mutations are buffered until Commit.
type Tx struct {
	db    *DB
	batch *pebble.Batch
}

// Get copies the value stored for key.
func (tx *Tx) Get(key []byte) ([]byte, error) {
	if tx.batch == nil {
		return nil, ErrTxClosed
	}
	start := time.Now()
	val, closer, err := tx.batch.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	buf := append([]byte(nil), val...)
	tx.db.metrics.ObserveRead(time.Since(start), len(buf))
	return buf, nil
}

// Set stores value under key.
func (tx *Tx) Set(key, value []byte) error {
	if tx.batch == nil {
		return ErrTxClosed
	}
	return tx.batch.Set(key, value, nil)
}

// Delete removes key. Deleting an absent key is not an error.
func (tx *Tx) Delete(key []byte) error {
	if tx.batch == nil {
		return ErrTxClosed
	}
	return tx.batch.Delete(key, nil)
}

// Scan visits every entry whose key starts with prefix, in key order. The
// callback must not mutate the transaction.
func (tx *Tx) Scan(prefix []byte, fn func(key, value []byte) error) error {
	if tx.batch == nil {
		return ErrTxClosed
	}
	it, err := tx.batch.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: PrefixEnd(prefix)})
	if err != nil {
		return err
	}
	_, err = collect(it, fn)
	return err
}

// Commit applies every buffered mutation atomically.
func (tx *Tx) Commit() error {
	if tx.batch == nil {
		return ErrTxClosed
	}
	b := tx.batch
	tx.batch = nil
	defer b.Close()
	start := time.Now()
	ops, size := int(b.Count()), b.Len()
	err := b.Commit(tx.db.writeOptions())
	tx.db.metrics.ObserveBatchCommit(time.Since(start), ops, size)
	return err
}

// Rollback drops every buffered mutation.
func (tx *Tx) Rollback() error {
	if tx.batch == nil {
		return nil
	}
	b := tx.batch
	tx.batch = nil
	return b.Close()
}

// TxContext holds the single open transaction of a partition. Commit and
// Rollback end the current transaction and begin the next one.
type TxContext struct {
	db      *DB
	current *Tx
}

// NewTxContext begins the first transaction on db.
func NewTxContext(db *DB) *TxContext {
	return &TxContext{db: db, current: db.Begin()}
}

// Current returns the open transaction.
func (c *TxContext) Current() *Tx {
	return c.current
}

// Commit commits the open transaction and begins a new one.
func (c *TxContext) Commit() error {
	err := c.current.Commit()
	c.current = c.db.Begin()
	return err
}

// Rollback discards the open transaction and begins a new one.
func (c *TxContext) Rollback() error {
	err := c.current.Rollback()
	c.current = c.db.Begin()
	return err
}

// DB returns the database the context writes to.
func (c *TxContext) DB() *DB {
	return c.db
}
