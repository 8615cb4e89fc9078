package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates the given relative paths (directories implied) under a
// fresh temp dir and returns its root.
func buildTree(t *testing.T, paths []string) string {
	t.Helper()

	root := t.TempDir()

	for _, p := range paths {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(p), 0o644))
	}

	return root
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{
			name:  "filters unsupported extensions",
			paths: []string{"card.png", "notes.txt", "script.sh"},
			want:  []string{"card.png"},
		},
		{
			name:  "case-insensitive extensions",
			paths: []string{"a.PNG", "b.Jpg", "c.pdf", "d.TIFF"},
			want:  []string{"a.PNG", "b.Jpg", "c.pdf", "d.TIFF"},
		},
		{
			name:  "empty directory",
			paths: nil,
			want:  []string{},
		},
		{
			name:  "only unsupported files",
			paths: []string{"a.txt", "b.doc"},
			want:  []string{},
		},
		{
			name: "files before subdirectory contents",
			paths: []string{
				"z.png",
				"a/nested.jpg",
				"a/deep/deepest.gif",
				"b/late.pdf",
			},
			want: []string{
				"z.png",
				"a/nested.jpg",
				"a/deep/deepest.gif",
				"b/late.pdf",
			},
		},
		{
			name: "siblings in lexicographic order",
			paths: []string{
				"c.png",
				"a.png",
				"b.png",
			},
			want: []string{"a.png", "b.png", "c.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := buildTree(t, tt.paths)

			got, err := Discover(root)
			require.NoError(t, err)

			want := make([]string, 0, len(tt.want))
			for _, p := range tt.want {
				want = append(want, filepath.Join(root, p))
			}

			assert.Equal(t, want, got)
		})
	}
}

func TestDiscover_ReturnsAbsolutePaths(t *testing.T) {
	root := buildTree(t, []string{"card.png"})

	wd, err := os.Getwd()
	require.NoError(t, err)

	rel, err := filepath.Rel(wd, root)
	require.NoError(t, err)

	got, err := Discover(rel)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.True(t, filepath.IsAbs(got[0]))
	assert.Equal(t, filepath.Join(root, "card.png"), got[0])
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading directory")
}

func TestDiscover_RootIsFile(t *testing.T) {
	root := buildTree(t, []string{"card.png"})

	_, err := Discover(filepath.Join(root, "card.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
