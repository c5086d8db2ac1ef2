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
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/flowchartsman/retry"

	"github.com/tochemey/actornet/address"
	actorerrors "github.com/tochemey/actornet/errors"
	"github.com/tochemey/actornet/internal/validation"
	"github.com/tochemey/actornet/log"
)

const (
	savedDir    = "saved"
	restoredDir = "restored"

	dirMode  os.FileMode = 0o750
	fileMode os.FileMode = 0o600

	saveRetries      = 3
	saveInitialDelay = 10 * time.Millisecond
	saveMaxDelay     = 100 * time.Millisecond
)

// FileCheckpointer keeps one file per actor under root/saved, and moves it
// to root/restored when restored.
type FileCheckpointer struct {
	saved    string
	restored string
	logger   log.Logger
}

var _ Checkpointer = (*FileCheckpointer)(nil)

// NewFileCheckpointer creates the saved and restored directories under root.
func NewFileCheckpointer(root string, logger log.Logger) (*FileCheckpointer, error) {
	if err := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("root", root)).
		AddAssertion(logger != nil, "logger is required").
		Validate(); err != nil {
		return nil, err
	}

	checkpointer := &FileCheckpointer{
		saved:    filepath.Join(root, savedDir),
		restored: filepath.Join(root, restoredDir),
		logger:   logger,
	}

	for _, dir := range []string{checkpointer.saved, checkpointer.restored} {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, fmt.Errorf("checkpoint: creating %s: %w", dir, err)
		}
	}
	return checkpointer, nil
}

// Save writes data to a temporary file and renames it over the previous
// snapshot. Failed attempts are retried.
func (x *FileCheckpointer) Save(ctx context.Context, addr address.Address, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(x.saved, fileName(addr))
	retrier := retry.NewRetrier(saveRetries, saveInitialDelay, saveMaxDelay)
	return retrier.RunContext(ctx, func(context.Context) error {
		if err := writeFile(x.saved, path, data); err != nil {
			x.logger.Warnf("checkpoint: saving %s failed: %v", addr, err)
			return err
		}
		return nil
	})
}

// Restore moves the saved snapshot to the restored directory and returns it.
func (x *FileCheckpointer) Restore(ctx context.Context, addr address.Address) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := fileName(addr)
	restored := filepath.Join(x.restored, name)
	if err := os.Rename(filepath.Join(x.saved, name), restored); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", actorerrors.ErrCheckpointNotFound, addr)
		}
		return nil, fmt.Errorf("checkpoint: restoring %s: %w", addr, err)
	}
	return os.ReadFile(restored)
}

// Delete removes the saved and restored snapshots of addr.
func (x *FileCheckpointer) Delete(ctx context.Context, addr address.Address) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := fileName(addr)
	return errors.Join(
		removeFile(filepath.Join(x.saved, name)),
		removeFile(filepath.Join(x.restored, name)),
	)
}

func writeFile(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return errors.Join(err, tmp.Close(), os.Remove(tmp.Name()))
	}

	if err := tmp.Sync(); err != nil {
		return errors.Join(err, tmp.Close(), os.Remove(tmp.Name()))
	}

	if err := tmp.Close(); err != nil {
		return errors.Join(err, os.Remove(tmp.Name()))
	}

	if err := os.Chmod(tmp.Name(), fileMode); err != nil {
		return errors.Join(err, os.Remove(tmp.Name()))
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Join(err, os.Remove(tmp.Name()))
	}
	return nil
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// fileName maps an address to a name safe on any file system.
func fileName(addr address.Address) string {
	return base64.RawURLEncoding.EncodeToString([]byte(addr.String()))
}
