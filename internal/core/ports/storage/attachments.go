package storage

import (
	"context"
	"io"
)

// FileInput is an incoming upload, decoupled from multipart plumbing so
// services stay testable. Reader is consumed once and streamed to disk.
type FileInput struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// Category names the local subtree an attachment is stored under.
type Category string

const (
	CategoryInvoices        Category = "invoices"
	CategoryAdvancePayments Category = "advance_payments"
	CategoryCarWash         Category = "car_wash"
	CategoryCarInspections  Category = "car_inspections"
)

// LocalStore persists uploaded bytes under the configured upload root. The
// local copy is canonical; remote identifiers are best-effort mirrors.
type LocalStore interface {
	// SaveLocal writes the file under uploads/<category>/ with a sanitized
	// timestamped name and returns the path relative to the upload root
	// plus the number of bytes written. Extensions outside the allowed set
	// fail with apperrors.ErrUnsupportedMedia. Local write failures are
	// fatal to the enclosing operation.
	SaveLocal(category Category, originalName string, r io.Reader) (relPath string, size int64, err error)

	// AbsPath resolves a stored relative path against the upload root.
	AbsPath(relPath string) string
}

// RemoteFolder identifies a per-request folder on the remote store.
type RemoteFolder struct {
	FolderID  string
	FolderURL string
}

// RemoteFile describes a mirrored file on the remote store.
type RemoteFile struct {
	FileID      string
	ViewURL     string
	DownloadURL string
	SizeBytes   int64
}

// RemoteMirror replicates local files to the remote object store. Every
// method is best-effort: remote failures are logged inside the adapter and
// surfaced as nil results, never as errors.
type RemoteMirror interface {
	// Enabled reports whether a remote store is configured; when false all
	// other methods return nil immediately.
	Enabled() bool

	// EnsureRequestFolder creates (or finds) the structured folder
	// <type_tag>/<YYYYMM>/<request_id>_<employee_name>[_<vehicle_code>]
	// under the configured root. Idempotent by (typeTag, requestID).
	EnsureRequestFolder(ctx context.Context, typeTag string, requestID int64, employeeName string, vehicleCode *string) *RemoteFolder

	// MirrorFile uploads the local file into folderID, using displayName
	// when non-empty and the original filename otherwise. Files above the
	// configured threshold go through the resumable protocol.
	MirrorFile(ctx context.Context, localRelPath, folderID, displayName string) *RemoteFile
}
