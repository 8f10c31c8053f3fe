package cv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileTxt(t *testing.T) {
	dir := t.TempDir()
	p := NewParser(dir)

	content := "Jane Dev\nBackend Engineer at Acme Corp (2019 - 2022)\n"
	parsed, err := p.ParseFile("resume.txt", strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "resume.txt", parsed.Filename)
	assert.Equal(t, ".txt", parsed.FileType)
	assert.Equal(t, int64(len(content)), parsed.FileSize)
	assert.Equal(t, content, parsed.FullText)

	saved, err := os.ReadFile(filepath.Join(dir, "resume.txt"))
	require.NoError(t, err)
	assert.Equal(t, content, string(saved))
}

func TestParseFileUnsupportedType(t *testing.T) {
	p := NewParser(t.TempDir())

	_, err := p.ParseFile("resume.exe", strings.NewReader("binary"))
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestParseFileStripsDirectoryFromName(t *testing.T) {
	dir := t.TempDir()
	p := NewParser(dir)

	parsed, err := p.ParseFile("../outside/resume.txt", strings.NewReader("text"))
	require.NoError(t, err)
	assert.Equal(t, "resume.txt", parsed.Filename)
	assert.Equal(t, filepath.Join(dir, "resume.txt"), parsed.FilePath)
}
