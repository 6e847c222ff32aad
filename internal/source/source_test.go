package source

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathFromURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"file:///home/u/notes.txt", "/home/u/notes.txt", false},
		{"file://localhost/home/u/a.go", "/home/u/a.go", false},
		{"file:///home/u/with%20space.md", "/home/u/with space.md", false},
		{"file:///home/u/../u/./x.c", "/home/u/x.c", false},
		{"/plain/abs/path", "/plain/abs/path", false},
		{"sftp://host/home/u/x", "", true},
		{"file://otherhost/x", "", true},
		{"relative/path", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := PathFromURI(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathFromURI_NotLocalSentinel(t *testing.T) {
	t.Parallel()

	_, err := PathFromURI("https://example.com/a.txt")
	assert.True(t, errors.Is(err, ErrNotLocal))
}

func TestURIFromPath_RoundTrip(t *testing.T) {
	t.Parallel()

	path := "/home/u/dir with space/naïve.txt"
	got, err := PathFromURI(URIFromPath(path))
	require.NoError(t, err)
	assert.Equal(t, path, got)
}
