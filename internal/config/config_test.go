package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("format", FormatText, "")
	fs.Bool("verbose", false, "")
	fs.Bool("strict", false, "")
	fs.String("journal", "", "")
	fs.Bool("record", false, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, FormatText, cfg.Format)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.Strict)
	assert.Empty(t, cfg.Journal)
	assert.False(t, cfg.Record)
	assert.Empty(t, cfg.FileUsed)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := writeConfig(t, dir, "custom.yaml", "format: json\nstrict: true\njournal: mapsql.db\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "mapsql.db", cfg.Journal)
	assert.Equal(t, path, cfg.FileUsed)
}

func TestLoad_SearchesUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "mapsql.yml", "record: true\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.Record)
	assert.Equal(t, "mapsql.yml", filepath.Base(cfg.FileUsed))
}

func TestLoad_YAMLPreferredOverYML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mapsql.yaml", "format: json\n")
	writeConfig(t, dir, "mapsql.yml", "format: text\n")
	chdir(t, dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("does-not-exist.yaml", nil)
	assert.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mapsql.yaml", "format: json\nstrict: false\njournal: from-file.db\n")
	chdir(t, dir)
	t.Setenv("MAPSQL_STRICT", "true")
	t.Setenv("MAPSQL_JOURNAL", "from-env.db")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--journal", "from-flag.db"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Format, "file overrides default")
	assert.True(t, cfg.Strict, "env overrides file")
	assert.Equal(t, "from-flag.db", cfg.Journal, "flag overrides env")
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mapsql.yaml", "format: json\n")
	chdir(t, dir)

	fs := testFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestLoad_InvalidFormat(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MAPSQL_FORMAT", "xml")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
