package localfs

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	"github.com/najmfleet/employee_requests_app/internal/core/ports/storage"
)

func TestSaveLocal_WritesUnderCategoryDir(t *testing.T) {
	store := NewStore(t.TempDir(), false)

	rel, size, err := store.SaveLocal(storage.CategoryInvoices, "فاتورة.pdf", strings.NewReader("pdf-bytes"))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "uploads/invoices/"), "got %q", rel)
	assert.Equal(t, int64(len("pdf-bytes")), size)

	data, err := os.ReadFile(store.AbsPath(rel))
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
}

func TestSaveLocal_RejectsDisallowedExtension(t *testing.T) {
	store := NewStore(t.TempDir(), false)

	_, _, err := store.SaveLocal(storage.CategoryInvoices, "payload.exe", strings.NewReader("x"))

	require.ErrorIs(t, err, apperrors.ErrUnsupportedMedia)
}

func TestSaveLocal_StripsPathTraversal(t *testing.T) {
	store := NewStore(t.TempDir(), false)

	rel, _, err := store.SaveLocal(storage.CategoryCarWash, "../../etc/passwd.jpg", strings.NewReader("img"))

	require.NoError(t, err)
	assert.NotContains(t, rel, "..")
	assert.True(t, strings.HasPrefix(rel, "uploads/car_wash/"), "got %q", rel)
}

func TestSaveLocal_CollisionGetsRandomSuffix(t *testing.T) {
	store := NewStore(t.TempDir(), false)

	first, _, err := store.SaveLocal(storage.CategoryCarInspections, "front.jpg", strings.NewReader("a"))
	require.NoError(t, err)
	second, _, err := store.SaveLocal(storage.CategoryCarInspections, "front.jpg", strings.NewReader("b"))
	require.NoError(t, err)

	// Both saves land in the same second often enough that the collision
	// branch must produce distinct paths.
	assert.NotEqual(t, first, second)
}
