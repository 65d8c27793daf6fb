// Package cache is the C9 incremental signature cache: it computes a
// canonical structural signature for a validated declaration (spec
// §3.4) and persists a key→signature map so that a declaration whose
// signature is unchanged since the prior run can skip regeneration
// (spec §4.8).
//
// This is the strongest teacher grounding in the port:
// internal/manifest/manifest.go's calculateSchemaDigest (sha256 over a
// canonical string, hex-encoded, prefixed) and
// internal/iface/builtin_freeze.go's FrozenBuiltinInterface (canonical
// JSON of a sorted export map, then sha256) are both "build a
// deterministic string, hash it" — exactly this package's Digest
// function, generalized from a schema/interface identity to a
// declaration's structural identity.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sunholo/fakegen/internal/analyze"
	"github.com/sunholo/fakegen/internal/errors"
)

const fileName = "fakegen-cache.txt"

// CanonicalSignature builds the spec §3.4 canonical string for a
// validated declaration: kind tag, FQName, sorted property facts,
// sorted function facts, sorted type-parameter facts. Sorting every
// list makes two structurally equal declarations produce identical
// signatures regardless of the host's member presentation order.
func CanonicalSignature(d *analyze.Decl) string {
	var b strings.Builder

	kind := "interface"
	if d.Kind == analyze.KindClass {
		kind = "class"
	}
	fmt.Fprintf(&b, "kind=%s;fqname=%s;", kind, d.FQName())

	props := make([]string, 0, len(d.Properties))
	for _, p := range d.Properties {
		props = append(props, fmt.Sprintf("%s:%s:mut=%v:null=%v:abstract=%v", p.Name, p.Type, p.Mutable, p.Nullable, p.Abstract))
	}
	sort.Strings(props)
	fmt.Fprintf(&b, "props=[%s];", strings.Join(props, ","))

	funcs := make([]string, 0, len(d.Functions))
	for _, f := range d.Functions {
		params := make([]string, 0, len(f.Params))
		for _, p := range f.Params {
			params = append(params, fmt.Sprintf("%s:default=%v:vararg=%v", p.Type, p.HasDefault, p.Vararg))
		}
		funcs = append(funcs, fmt.Sprintf("%s(%s):%s:suspend=%v:inline=%v:op=%s:ext=%s:abstract=%v",
			f.Name, strings.Join(params, ","), f.ReturnType, f.Suspend, f.Inline, f.Operator, f.ExtensionReceiver, f.Abstract))
	}
	sort.Strings(funcs)
	fmt.Fprintf(&b, "funcs=[%s];", strings.Join(funcs, ","))

	tps := make([]string, 0, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		bounds := append([]string(nil), tp.Bounds...)
		sort.Strings(bounds)
		tps = append(tps, fmt.Sprintf("%s:bounds=%s:variance=%s", tp.Name, strings.Join(bounds, "+"), tp.Variance.String()))
	}
	sort.Strings(tps)
	fmt.Fprintf(&b, "typeparams=[%s]", strings.Join(tps, ","))

	return b.String()
}

// Digest returns a compact sha256 hex digest of d's canonical
// signature, the value stored in the cache file.
func Digest(d *analyze.Decl) string {
	sum := sha256.Sum256([]byte(CanonicalSignature(d)))
	return hex.EncodeToString(sum[:])
}

// Key is the cache key for d: `fqName@fileName` (spec §6).
func Key(d *analyze.Decl) string {
	file := d.Span.Start.File
	return d.FQName() + "@" + file
}

// Cache is the C9 persistent signature cache. A zero outputDir
// disables persistence: needsRegeneration/recordGeneration still work
// within the current process (the "session-local cache" fallback of
// spec §4.8), but Save is a no-op and nothing survives the process.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]string
	outputDir string
	dirty     bool
}

// Load reads the cache file from outputDir, if present, ignoring
// malformed lines and treating any I/O or parse failure as an empty
// cache (spec §4.8's fail-safe behavior: cache I/O errors never abort
// compilation, only degrade to a full regeneration).
func Load(outputDir string) *Cache {
	c := &Cache{entries: map[string]string{}, outputDir: outputDir}
	if outputDir == "" {
		return c
	}
	data, err := os.ReadFile(filepath.Join(outputDir, fileName))
	if err != nil {
		return c
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			continue
		}
		key, sig := line[:idx], line[idx+1:]
		if key == "" || sig == "" {
			continue
		}
		c.entries[key] = sig
	}
	return c
}

// NeedsRegeneration reports whether d's current signature differs from
// the cached value for its key, or no cached value exists (spec §4.8).
func (c *Cache) NeedsRegeneration(d *analyze.Decl) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cached, ok := c.entries[Key(d)]
	if !ok {
		return true
	}
	return cached != Digest(d)
}

// RecordGeneration updates the in-memory map with d's current
// signature. Deleted declarations leave stale entries behind, but they
// never influence future decisions because lookups are always by the
// current declaration's key (spec §4.8).
func (c *Cache) RecordGeneration(d *analyze.Decl) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(d)] = Digest(d)
	c.dirty = true
}

// Save persists the in-memory map to outputDir, atomically (write to a
// temp file, then rename). A no-op when outputDir is empty
// (persistence disabled) or nothing has changed since the last save.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outputDir == "" || !c.dirty {
		return nil
	}

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, c.entries[k])
	}

	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return errors.Wrap(errors.New(errors.FAC001, "cache", "failed to create output dir: "+err.Error()))
	}

	tmp, err := os.CreateTemp(c.outputDir, fileName+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.New(errors.FAC001, "cache", "failed to create temp cache file: "+err.Error()))
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrap(errors.New(errors.FAC001, "cache", "failed to write temp cache file: "+err.Error()))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(errors.New(errors.FAC001, "cache", "failed to close temp cache file: "+err.Error()))
	}

	target := filepath.Join(c.outputDir, fileName)
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(errors.New(errors.FAC001, "cache", "failed to rename cache file into place: "+err.Error()))
	}

	c.dirty = false
	return nil
}

// Len reports the number of entries currently tracked (for telemetry
// and the `cache-info` CLI verb).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Lookup returns the raw stored digest for key.
func (c *Cache) Lookup(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sig, ok := c.entries[key]
	return sig, ok
}
