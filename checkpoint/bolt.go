// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package checkpoint

import (
	"context"
	"fmt"
	"os"
	"time"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/atomic"

	"github.com/tochemey/actornet/address"
	"github.com/tochemey/actornet/errors"
)

const boltFileMode os.FileMode = 0o600

var (
	savedBucket    = []byte(savedDir)
	restoredBucket = []byte(restoredDir)
	boltTimeout    = 5 * time.Second
)

// BoltCheckpointer keeps snapshots in a bbolt database, one bucket for saved
// snapshots and one for restored ones. Every call runs in one transaction.
type BoltCheckpointer struct {
	db     *bbolt.DB
	closed atomic.Bool
}

var _ Checkpointer = (*BoltCheckpointer)(nil)

// NewBoltCheckpointer opens or creates the database at path.
func NewBoltCheckpointer(path string) (*BoltCheckpointer, error) {
	db, err := bbolt.Open(path, boltFileMode, &bbolt.Options{Timeout: boltTimeout})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: opening boltdb: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{savedBucket, restoredBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("checkpoint: initializing boltdb buckets: %w", err)
	}

	return &BoltCheckpointer{db: db}, nil
}

// Save implements Checkpointer.
func (x *BoltCheckpointer) Save(ctx context.Context, addr address.Address, data []byte) error {
	if err := x.check(ctx); err != nil {
		return err
	}

	return x.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(savedBucket).Put(key(addr), data)
	})
}

// Restore implements Checkpointer.
func (x *BoltCheckpointer) Restore(ctx context.Context, addr address.Address) ([]byte, error) {
	if err := x.check(ctx); err != nil {
		return nil, err
	}

	var data []byte
	err := x.db.Update(func(tx *bbolt.Tx) error {
		saved := tx.Bucket(savedBucket)
		raw := saved.Get(key(addr))
		if raw == nil {
			return fmt.Errorf("%w: %s", errors.ErrCheckpointNotFound, addr)
		}

		// raw is only valid for the life of the transaction
		data = append([]byte(nil), raw...)
		if err := tx.Bucket(restoredBucket).Put(key(addr), data); err != nil {
			return err
		}
		return saved.Delete(key(addr))
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete implements Checkpointer.
func (x *BoltCheckpointer) Delete(ctx context.Context, addr address.Address) error {
	if err := x.check(ctx); err != nil {
		return err
	}

	return x.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(savedBucket).Delete(key(addr)); err != nil {
			return err
		}
		return tx.Bucket(restoredBucket).Delete(key(addr))
	})
}

// Close closes the database. Close is idempotent.
func (x *BoltCheckpointer) Close() error {
	if !x.closed.CompareAndSwap(false, true) {
		return nil
	}
	return x.db.Close()
}

func (x *BoltCheckpointer) check(ctx context.Context) error {
	if x.closed.Load() {
		return errors.ErrClosed
	}
	return ctx.Err()
}

func key(addr address.Address) []byte {
	return []byte(addr.String())
}
