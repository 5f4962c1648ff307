package gdrive

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/najmfleet/employee_requests_app/internal/core/ports/storage"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	folderURLBase  = "https://drive.google.com/drive/folders/"

	// resumable uploads send 8 MiB chunks and yield between them.
	uploadChunkSize = 8 << 20
)

// Mirror replicates local attachments to Google Drive. Every operation is
// best-effort: failures are logged and reported as nil results so the
// business path never blocks on Drive.
type Mirror struct {
	svc                *drive.Service
	local              storage.LocalStore
	rootFolderID       string
	resumableThreshold int64
	logger             *slog.Logger

	mu          sync.Mutex
	folderCache map[string]storage.RemoteFolder
}

// Disabled returns a mirror whose Enabled() is false; callers then skip
// remote replication entirely.
func Disabled() *Mirror {
	return &Mirror{}
}

// NewMirror builds a Drive client from service-account credentials.
// A nil-safe Disabled() mirror is returned together with the error so the
// caller can degrade instead of failing startup.
func NewMirror(ctx context.Context, credentialsFile, rootFolderID string, local storage.LocalStore, resumableThreshold int64, logger *slog.Logger) (*Mirror, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return Disabled(), fmt.Errorf("failed to read drive credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, drive.DriveScope)
	if err != nil {
		return Disabled(), fmt.Errorf("failed to parse drive credentials: %w", err)
	}
	svc, err := drive.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return Disabled(), fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Mirror{
		svc:                svc,
		local:              local,
		rootFolderID:       rootFolderID,
		resumableThreshold: resumableThreshold,
		logger:             logger,
		folderCache:        map[string]storage.RemoteFolder{},
	}, nil
}

var _ storage.RemoteMirror = (*Mirror)(nil)

// Enabled reports whether a Drive client is configured.
func (m *Mirror) Enabled() bool {
	return m != nil && m.svc != nil
}

// EnsureRequestFolder creates (or finds) the per-request folder
// <type_tag>/<YYYYMM>/<request_id>_<employee_name>[_<vehicle_code>].
// Idempotent by (typeTag, requestID): repeated calls return the same folder.
func (m *Mirror) EnsureRequestFolder(ctx context.Context, typeTag string, requestID int64, employeeName string, vehicleCode *string) *storage.RemoteFolder {
	if !m.Enabled() {
		return nil
	}

	cacheKey := fmt.Sprintf("%s/%d", typeTag, requestID)
	m.mu.Lock()
	if cached, ok := m.folderCache[cacheKey]; ok {
		m.mu.Unlock()
		return &cached
	}
	m.mu.Unlock()

	typeFolderID, err := m.getOrCreateFolder(ctx, typeTag, m.rootFolderID)
	if err != nil {
		m.logger.Warn("Drive type folder creation failed", slog.String("type", typeTag), slog.String("error", err.Error()))
		return nil
	}

	monthFolderID, err := m.getOrCreateFolder(ctx, time.Now().UTC().Format("200601"), typeFolderID)
	if err != nil {
		m.logger.Warn("Drive month folder creation failed", slog.String("error", err.Error()))
		return nil
	}

	name := fmt.Sprintf("%d_%s", requestID, sanitizeDriveName(employeeName))
	if vehicleCode != nil && *vehicleCode != "" {
		name += "_" + sanitizeDriveName(*vehicleCode)
	}
	folderID, err := m.getOrCreateFolder(ctx, name, monthFolderID)
	if err != nil {
		m.logger.Warn("Drive request folder creation failed", slog.String("folder", name), slog.String("error", err.Error()))
		return nil
	}

	folder := storage.RemoteFolder{FolderID: folderID, FolderURL: folderURLBase + folderID}
	m.mu.Lock()
	m.folderCache[cacheKey] = folder
	m.mu.Unlock()
	return &folder
}

// MirrorFile uploads the local file into folderID. Files above the
// threshold stream through the resumable protocol in 8 MiB chunks;
// smaller files go single-shot.
func (m *Mirror) MirrorFile(ctx context.Context, localRelPath, folderID, displayName string) *storage.RemoteFile {
	if !m.Enabled() || folderID == "" {
		return nil
	}

	absPath := m.local.AbsPath(localRelPath)
	f, err := os.Open(absPath)
	if err != nil {
		m.logger.Warn("Mirror skipped, local file unreadable", slog.String("path", localRelPath), slog.String("error", err.Error()))
		return nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		m.logger.Warn("Mirror skipped, stat failed", slog.String("path", localRelPath), slog.String("error", err.Error()))
		return nil
	}

	name := displayName
	if name == "" {
		name = filepath.Base(absPath)
	}
	contentType := mime.TypeByExtension(filepath.Ext(absPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	meta := &drive.File{Name: name, Parents: []string{folderID}}
	call := m.svc.Files.Create(meta).Fields("id, webViewLink, webContentLink, size").Context(ctx)
	if info.Size() > m.resumableThreshold {
		call = call.Media(f, googleapi.ContentType(contentType), googleapi.ChunkSize(uploadChunkSize))
	} else {
		call = call.Media(f, googleapi.ContentType(contentType))
	}

	created, err := call.Do()
	if err != nil {
		m.logger.Warn("Drive upload failed", slog.String("path", localRelPath), slog.String("error", err.Error()))
		return nil
	}

	return &storage.RemoteFile{
		FileID:      created.Id,
		ViewURL:     created.WebViewLink,
		DownloadURL: created.WebContentLink,
		SizeBytes:   info.Size(),
	}
}

// getOrCreateFolder finds a child folder by exact name, creating it when absent.
func (m *Mirror) getOrCreateFolder(ctx context.Context, name, parentID string) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeDriveQuery(name), folderMimeType)
	if parentID != "" {
		query += fmt.Sprintf(" and '%s' in parents", parentID)
	}
	list, err := m.svc.Files.List().Q(query).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	meta := &drive.File{Name: name, MimeType: folderMimeType}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	created, err := m.svc.Files.Create(meta).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func sanitizeDriveName(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '\'', '"':
			return '_'
		}
		return r
	}, s)
}

func escapeDriveQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
