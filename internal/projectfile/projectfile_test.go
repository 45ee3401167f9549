package projectfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProjectFile(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0644))
	return root
}

func TestLoad_Missing(t *testing.T) {
	f, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestLoad_Valid(t *testing.T) {
	root := writeProjectFile(t, `type: VST3
name: MyGen
channelconf: "{2,2}"
configuration: Release
version: "1.2.0"
settle_delay: 3s
`)
	f, err := Load(root)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "VST3", f.Type)
	assert.Equal(t, "MyGen", f.Name)
	assert.Equal(t, "{2,2}", f.ChannelConf)
	assert.Equal(t, "Release", f.Configuration)
	assert.Equal(t, "1.2.0", f.Version)

	d, ok, err := f.SettleDelayDuration()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, d)
}

func TestLoad_Empty(t *testing.T) {
	f, err := Load(writeProjectFile(t, ""))
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, File{}, *f)

	_, ok, err := f.SettleDelayDuration()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
	}{
		{"bad configuration", "configuration: Profile\n", "/configuration"},
		{"unknown key", "flavour: spicy\n", ""},
		{"numeric version", "version: 1.5\n", "/version"},
		{"bad settle delay", "settle_delay: soon\n", "/settle_delay"},
		{"slash in name", "name: a/b\n", "/name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeProjectFile(t, tt.content))
			var invalid *InvalidError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			require.NotEmpty(t, invalid.Issues)
			if tt.path != "" {
				assert.Equal(t, tt.path, invalid.Issues[0].Path)
			}
		})
	}
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeProjectFile(t, "type: [unclosed\n"))
	require.Error(t, err)
	var invalid *InvalidError
	assert.False(t, errors.As(err, &invalid))
}
