package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl        string            `json:"base_url"`
	TimeoutSeconds int               `json:"timeout_seconds"`
	Headers        map[string]string `json:"headers"`
}

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "worksearch.json5"), `{
		// comments are allowed
		base_url: "https://example.com/works-search",
		timeout_seconds: 30,
	}`)
	writeFile(t, filepath.Join(dir, "worksearch.local.json5"), `{
		timeout_seconds: 5,
		headers: {"x-test": "1"},
	}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "worksearch.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://example.com/works-search", cfg.BaseUrl)
	require.Equal(t, 5, cfg.TimeoutSeconds)
	require.Equal(t, map[string]string{"x-test": "1"}, cfg.Headers)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "worksearch.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "worksearch.json5"), `{ base_url: `)

	_, err := ReadConfig[testConfig](filepath.Join(dir, "worksearch.json5"))
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0700))
	writeFile(t, filepath.Join(root, "worksearch.json5"), `{ timeout_seconds: 12 }`)

	t.Chdir(nested)

	cfg, err := ReadRecursively[testConfig]("worksearch.json5")
	require.NoError(t, err)
	require.Equal(t, 12, cfg.TimeoutSeconds)

	_, err = ReadRecursively[testConfig]("missing.json5")
	require.ErrorIs(t, err, os.ErrNotExist)
}
