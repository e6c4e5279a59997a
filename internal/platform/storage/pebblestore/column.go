package pebblestore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Column is a typed column family. Values are stored as JSON so that equal
// states always serialize to equal bytes.
type Column[V any] struct {
	ctx    *TxContext
	prefix byte
	name   string
}

// NewColumn binds a column family to the partition's transaction context.
func NewColumn[V any](ctx *TxContext, prefix byte, name string) *Column[V] {
	return &Column[V]{ctx: ctx, prefix: prefix, name: name}
}

// Key starts a key in this column family.
func (c *Column[V]) Key() Key {
	return NewKey(c.prefix)
}

// Get decodes the value stored under key.
func (c *Column[V]) Get(key Key) (V, error) {
	var value V
	raw, err := c.ctx.Current().Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return value, fmt.Errorf("%s: %w", c.name, ErrNotFound)
		}
		return value, fmt.Errorf("get %s: %w", c.name, err)
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return value, nil
}

// Exists reports whether key is present.
func (c *Column[V]) Exists(key Key) (bool, error) {
	_, err := c.ctx.Current().Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", c.name, err)
	}
	return true, nil
}

// Put encodes and stores value under key.
func (c *Column[V]) Put(key Key, value V) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := c.ctx.Current().Set(key, raw); err != nil {
		return fmt.Errorf("put %s: %w", c.name, err)
	}
	return nil
}

// Delete removes key.
func (c *Column[V]) Delete(key Key) error {
	if err := c.ctx.Current().Delete(key); err != nil {
		return fmt.Errorf("delete %s: %w", c.name, err)
	}
	return nil
}

// ForEach visits every entry under prefix in key order. prefix must be built
// from Key.
func (c *Column[V]) ForEach(prefix Key, fn func(key []byte, value V) error) error {
	return c.ctx.Current().Scan(prefix, func(key, raw []byte) error {
		var value V
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("decode %s: %w", c.name, err)
		}
		return fn(key, value)
	})
}

// Keys collects every key under prefix. Useful before deleting while
// iterating.
func (c *Column[V]) Keys(prefix Key) ([][]byte, error) {
	var keys [][]byte
	err := c.ctx.Current().Scan(prefix, func(key, _ []byte) error {
		keys = append(keys, key)
		return nil
	})
	return keys, err
}

// DeletePrefix removes every entry under prefix.
func (c *Column[V]) DeletePrefix(prefix Key) error {
	keys, err := c.Keys(prefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := c.ctx.Current().Delete(key); err != nil {
			return fmt.Errorf("delete %s: %w", c.name, err)
		}
	}
	return nil
}
