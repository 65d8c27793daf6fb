package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/fakegen/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	o := config.Default()
	require.True(t, o.Enabled)
	require.False(t, o.Debug)
	require.Equal(t, []string{"Fake"}, o.AnnotationNames)
}

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fakegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0o644))

	o, err := config.Load(path)
	require.NoError(t, err)
	require.True(t, o.Debug)
	require.True(t, o.Enabled, "omitted enabled should keep the default")
	require.Equal(t, []string{"Fake"}, o.AnnotationNames)
}

func TestLoadHonorsCustomAnnotationNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fakegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("annotationNames: [Fake, Mock]\n"), 0o644))

	o, err := config.Load(path)
	require.NoError(t, err)
	require.True(t, o.MatchesAnnotation("Mock"))
	require.False(t, o.MatchesAnnotation("Spy"))
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}
