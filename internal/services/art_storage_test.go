package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestSaveAndFindArt(t *testing.T) {
	svc := NewArtStorageService(t.TempDir(), nil)

	name, err := svc.SaveArt("EX1_238", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "EX1_238.png", name)

	path, ok := svc.ArtPath("EX1_238")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(svc.GetStorageDir(), name), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestSaveArtReplacesOtherFormat(t *testing.T) {
	svc := NewArtStorageService(t.TempDir(), nil)

	_, err := svc.SaveArt("EX1_238", pngHeader)
	require.NoError(t, err)
	name, err := svc.SaveArt("EX1_238", []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"))
	require.NoError(t, err)
	assert.Equal(t, "EX1_238.jpg", name)

	_, err = os.Stat(filepath.Join(svc.GetStorageDir(), "EX1_238.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveArtRejectsBadInput(t *testing.T) {
	svc := NewArtStorageService(t.TempDir(), nil)

	tests := []struct {
		name string
		id   string
		data []byte
	}{
		{"Path traversal", "../etc/passwd", pngHeader},
		{"Empty id", "", pngHeader},
		{"Empty data", "EX1_238", nil},
		{"Not an image", "EX1_238", []byte("hello world")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveArt(tt.id, tt.data)
			assert.Error(t, err)
		})
	}
}

func TestDeleteArt(t *testing.T) {
	svc := NewArtStorageService(t.TempDir(), nil)
	_, err := svc.SaveArt("EX1_238", pngHeader)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteArt("EX1_238"))
	require.NoError(t, svc.DeleteArt("EX1_238"))

	_, ok := svc.ArtPath("EX1_238")
	assert.False(t, ok)
}
