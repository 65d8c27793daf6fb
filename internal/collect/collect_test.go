package collect_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/fakegen/internal/collect"
)

func writeKtFile(t *testing.T, dir, name, pkg string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "// GENERATED\n\npackage " + pkg + "\n\nclass Fake\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCollectMissingProducerDirFails(t *testing.T) {
	_, err := collect.Collect(collect.Options{ProducerDir: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}

func TestCollectMatchesShortestCaseInsensitiveSourceSet(t *testing.T) {
	producer := t.TempDir()
	writeKtFile(t, producer, "FakeThing.kt", "com.example.ios.fakes")

	consumer := t.TempDir()
	iosMain := filepath.Join(consumer, "iosMain")
	iosX64Main := filepath.Join(consumer, "iosX64Main")

	result, err := collect.Collect(collect.Options{
		ProducerDir: producer,
		SourceSets: []collect.SourceSet{
			{Name: "iosMain", Root: iosMain},
			{Name: "iosX64Main", Root: iosX64Main},
		},
		CommonSetName: "commonMain",
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Copied)

	for _, target := range result.Mapping {
		require.Equal(t, "iosMain", target, "the shortest matching source set should win")
	}
	require.FileExists(t, filepath.Join(iosMain, "FakeThing.kt"))
}

func TestCollectFallsBackToCommonSetWhenNoSegmentMatches(t *testing.T) {
	producer := t.TempDir()
	writeKtFile(t, producer, "FakeOther.kt", "com.example.unmatched")

	consumer := t.TempDir()
	common := filepath.Join(consumer, "commonMain")

	result, err := collect.Collect(collect.Options{
		ProducerDir:   producer,
		SourceSets:    []collect.SourceSet{{Name: "iosMain", Root: filepath.Join(consumer, "iosMain")}},
		CommonSetName: "commonMain",
		CommonRoot:    common,
	})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(common, "FakeOther.kt"))
}

func TestCollectDryRunDoesNotCopy(t *testing.T) {
	producer := t.TempDir()
	writeKtFile(t, producer, "FakeThing.kt", "com.example")

	consumer := t.TempDir()
	common := filepath.Join(consumer, "commonMain")

	result, err := collect.Collect(collect.Options{
		ProducerDir:   producer,
		CommonSetName: "commonMain",
		CommonRoot:    common,
		DryRun:        true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Copied)
	require.NoFileExists(t, filepath.Join(common, "FakeThing.kt"))
}
