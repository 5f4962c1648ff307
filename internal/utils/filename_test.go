package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "invoice.pdf", "invoice.pdf"},
		{"keeps arabic letters", "فاتورة_يناير.pdf", "فاتورة_يناير.pdf"},
		{"strips directories", "../../etc/passwd.jpg", "passwd.jpg"},
		{"strips windows directories", `C:\Users\x\photo.png`, "photo.png"},
		{"replaces shell characters", "my file; rm -rf.png", "my_file_rm_-rf.png"},
		{"lowercases extension", "SCAN.PDF", "SCAN.pdf"},
		{"empty base falls back", "???.jpg", "file.jpg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeFilename(tc.in))
		})
	}
}

func TestFileExt(t *testing.T) {
	assert.Equal(t, "pdf", FileExt("scan.PDF"))
	assert.Equal(t, "jpg", FileExt("صورة.jpg"))
	assert.Equal(t, "", FileExt("noext"))
}
