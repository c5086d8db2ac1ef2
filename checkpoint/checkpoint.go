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

// Package checkpoint persists actor snapshots outside of the store.
//
// A checkpoint is saved under the actor address and restored at most once:
// restoring moves the snapshot aside so a second restore of the same save
// fails with errors.ErrCheckpointNotFound. Saving again makes it
// restorable anew.
package checkpoint

import (
	"context"

	"github.com/tochemey/actornet/address"
)

// Checkpointer stores actor snapshots.
type Checkpointer interface {
	// Save stores data as the latest snapshot of addr.
	Save(ctx context.Context, addr address.Address, data []byte) error
	// Restore returns the latest saved snapshot of addr and marks it restored.
	Restore(ctx context.Context, addr address.Address) ([]byte, error)
	// Delete removes every snapshot of addr. Deleting nothing is not an error.
	Delete(ctx context.Context, addr address.Address) error
}
