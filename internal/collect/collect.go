// Package collect is the C11 collector task: a build-task that
// harvests emitted fake files from one producing unit's on-disk
// directory and re-copies them into a consuming unit's per-platform
// source roots, binning each file by the platform segment of its
// package name (spec §4.9).
//
// The sequential-read, header-parsing shape generalizes
// internal/loader/loader.go's ModuleLoader.Load (read file, extract a
// declared identity, cache by that identity); the segment-matching
// rule generalizes internal/module/resolver.go's case-insensitive,
// platform-aware path normalization, applied here to source-set names
// instead of filesystem paths.
package collect

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sunholo/fakegen/internal/errors"
	"github.com/sunholo/fakegen/internal/telemetry"
)

// SourceSet is one of the consumer's named source sets with the
// generated-code root that a matched file gets copied into.
type SourceSet struct {
	Name string
	Root string
}

// Options configures one Collect run (spec §4.9's inputs).
type Options struct {
	ProducerDir   string
	SourceSets    []SourceSet
	CommonSetName string // fallback when no platform segment matches
	CommonRoot    string
	Log           *telemetry.Logger
	DryRun        bool
}

// Result summarizes what Collect did: the number of files processed
// and the chosen source set per file. Mapping is a map, so it carries
// no order; Collect itself visits files in sorted-path order.
type Result struct {
	Copied  int
	Mapping map[string]string // source file path -> chosen source-set name
}

// Collect harvests every `.kt` file under opts.ProducerDir and copies
// it into the matching consumer source set's root (spec §4.9
// procedure). It fails only if the producer's directory is missing
// (spec §6: "Exit status is success unless the producer's emitted
// directory is missing when expected") or a file copy itself fails;
// an individual file with no discoverable package declaration is
// routed to the common source set rather than aborting the task.
func Collect(opts Options) (*Result, error) {
	if _, err := os.Stat(opts.ProducerDir); err != nil {
		return nil, errors.Wrap(errors.New(errors.FAX002, "collect",
			"producer emitted directory missing: "+opts.ProducerDir))
	}

	var files []string
	err := filepath.WalkDir(opts.ProducerDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".kt") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.New(errors.FAX002, "collect", "failed walking producer directory: "+err.Error()))
	}
	sort.Strings(files)

	result := &Result{Mapping: map[string]string{}}
	for _, f := range files {
		pkg, ok := readPackage(f)
		target, root := opts.CommonSetName, opts.CommonRoot
		var candidates []string
		if ok {
			segs := strings.Split(pkg, ".")
			if chosen, cand := matchSourceSet(segs, opts.SourceSets); chosen != nil {
				target, root = chosen.Name, chosen.Root
				candidates = cand
			}
		}

		if opts.Log != nil {
			opts.Log.Tracef("collect: %s pkg=%q candidates=%v chosen=%s", f, pkg, candidates, target)
		}

		if !opts.DryRun {
			if err := copyInto(f, root); err != nil {
				return nil, errors.Wrap(errors.New(errors.FAX001, "collect", "failed to copy "+f+": "+err.Error()))
			}
		}
		result.Mapping[f] = target
		result.Copied++
	}
	return result, nil
}

// readPackage scans the first ten lines of path for a `package ...`
// declaration (spec §4.9 step 1). ok is false if none is found within
// that window, in which case the caller falls back to the common
// source set.
func readPackage(path string) (pkg string, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for i := 0; i < 10 && scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "package ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "package ")), true
		}
	}
	return "", false
}

// matchSourceSet implements spec §4.9 steps 2-4: split the package
// into dot-segments, find every source-set name that begins with a
// segment (case-insensitive) and ends with "Main", and pick the
// shortest match (most general in the platform hierarchy — e.g.
// `iosMain` beats `iosX64Main`). Matching is deterministic: ties break
// on name, not on SourceSets iteration order, so re-running the
// collector over the same inputs always picks the same set (spec §4.9
// "the mapping is deterministic and idempotent").
func matchSourceSet(segments []string, sets []SourceSet) (*SourceSet, []string) {
	var candidates []string
	var best *SourceSet
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		for i := range sets {
			name := sets[i].Name
			if !strings.HasSuffix(name, "Main") {
				continue
			}
			if len(name) < len(seg) || !strings.EqualFold(name[:len(seg)], seg) {
				continue
			}
			candidates = append(candidates, name)
			if best == nil || len(name) < len(best.Name) || (len(name) == len(best.Name) && name < best.Name) {
				best = &sets[i]
			}
		}
	}
	sort.Strings(candidates)
	return best, candidates
}

// copyInto copies src into destDir, preserving its base name.
func copyInto(src, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	dest := filepath.Join(destDir, filepath.Base(src))
	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}
