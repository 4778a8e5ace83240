// Package device provides access to the remote capture device through its
// debug bridge. The pipeline needs exactly two operations, listing a remote
// directory and pulling a file; ADB is the production implementation and
// everything else mocks the Bridge interface.
package device

import (
	"context"
	"errors"
	"fmt"
)

// RemoteFile is one entry in a remote directory listing.
type RemoteFile struct {
	Name string
	Size int64
}

// Bridge lists and copies files on the remote capture device.
type Bridge interface {
	// List returns the regular files directly inside dir. Fails with
	// ErrRemoteUnavailable when the device cannot be reached.
	List(ctx context.Context, dir string) ([]RemoteFile, error)

	// Pull copies one remote file to localPath, overwriting any existing
	// file. Failures are reported as *TransferError.
	Pull(ctx context.Context, remotePath, localPath string) error
}

// ErrRemoteUnavailable indicates the device is unreachable or the remote
// listing failed. Callers treat this as fatal for the current run.
var ErrRemoteUnavailable = errors.New("remote device unavailable")

// TransferError reports a single failed pull. Per-file and non-fatal: the
// sync continues with the remaining files.
type TransferError struct {
	RemotePath string
	Err        error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %s: %v", e.RemotePath, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
