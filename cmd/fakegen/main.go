// Command fakegen drives the fake-synthesis pipeline from the command
// line: `generate` runs Phase F/T/S end to end over a fixture of
// declarations, `cache-info` reports the incremental signature cache's
// contents, `collect` runs the cross-unit file collector, and
// `explain` is an interactive REPL that prints a declaration's
// canonical signature and digest.
//
// Follows cmd/ailang/main.go's shape: stdlib flag package, a top-level
// command switch, fatih/color for status output. cobra/pflag are
// never imported here (see DESIGN.md): this tool has four flat verbs
// and no nested subcommand trees, so the teacher's own flag-based
// cmd/ailang is the closer fit than adding a framework neither teacher
// command uses for its outer CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sunholo/fakegen/internal/analyze"
	"github.com/sunholo/fakegen/internal/cache"
	"github.com/sunholo/fakegen/internal/codemodel"
	"github.com/sunholo/fakegen/internal/collect"
	"github.com/sunholo/fakegen/internal/config"
	"github.com/sunholo/fakegen/internal/hostadapter"
	"github.com/sunholo/fakegen/internal/render"
	"github.com/sunholo/fakegen/internal/synth"
	"github.com/sunholo/fakegen/internal/telemetry"
	"github.com/sunholo/fakegen/internal/transform"
)

var (
	Version = "dev"

	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		fixtureFlag = flag.String("fixture", "", "Path to a YAML fixture of declarations (hostadapter.LoadFixture)")
		outDirFlag  = flag.String("out", "", "Output directory for generated files and the incremental cache")
		levelFlag   = flag.String("level", "info", "Log level: quiet, info, debug, trace")
		configFlag  = flag.String("config", "", "Path to a YAML config file (internal/config.Load)")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("fakegen %s\n", bold(Version))
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	log := telemetry.NewLogger(telemetry.ParseLevel(*levelFlag))

	opts := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
			os.Exit(1)
		}
		opts = loaded
	}
	if !opts.Enabled {
		log.Infof("fakegen is disabled by configuration")
		return
	}

	switch flag.Arg(0) {
	case "generate":
		runGenerate(*fixtureFlag, *outDirFlag, log)
	case "cache-info":
		runCacheInfo(*outDirFlag, log)
	case "collect":
		runCollect(flag.Args()[1:], log)
	case "explain":
		runExplain(*fixtureFlag, log)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("fakegen - Kotlin test-double generator"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  fakegen generate -fixture decls.yaml -out build/generated/fakegen")
	fmt.Println("  fakegen cache-info -out build/generated/fakegen")
	fmt.Println("  fakegen collect -producer <dir> -common <dir>")
	fmt.Println("  fakegen explain -fixture decls.yaml")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

// runGenerate runs Phase F, T, and S over every declaration in the
// fixture, consulting the incremental cache so unchanged declarations
// are skipped (spec §4.8).
func runGenerate(fixturePath, outDir string, log *telemetry.Logger) {
	if fixturePath == "" {
		fmt.Fprintf(os.Stderr, "%s: -fixture is required for generate\n", red("error"))
		os.Exit(1)
	}

	resolver, err := hostadapter.LoadFixture(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}

	timer := telemetry.NewPhaseTimer()
	counters := &telemetry.Counters{}
	store := analyze.NewStore()
	analyzer := &analyze.Analyzer{Log: log}

	c := cache.Load(outDir)

	for _, raw := range resolver.All() {
		decl := telemetry.Observe(timer, "analyze", func() *analyze.Decl {
			d, err := analyze.Analyze(raw, resolver, analyzer)
			if err != nil {
				log.Warnf("rejected %s: %v", raw.FQName(), err)
				counters.IncRejected()
				return nil
			}
			return d
		})
		if decl == nil {
			continue
		}
		store.Put(decl)
	}

	for _, decl := range store.All() {
		if !c.NeedsRegeneration(decl) {
			log.Tracef("skip %s: signature unchanged", decl.FQName())
			counters.IncSkipped()
			continue
		}

		transformResult := telemetry.Observe(timer, "transform", func() transformOutcome {
			inputs, err := transform.Transform(decl)
			return transformOutcome{inputs: inputs, err: err}
		})
		if transformResult.err != nil {
			log.Warnf("transform failed for %s: %v", decl.FQName(), transformResult.err)
			counters.IncRejected()
			continue
		}

		synthResult := telemetry.Observe(timer, "synth", func() synthOutcome {
			recipe := &synth.Recipe{Inputs: transformResult.inputs}
			f, err := recipe.BuildFile()
			return synthOutcome{file: f, err: err}
		})
		if synthResult.err != nil {
			log.Warnf("synthesis failed for %s: %v", decl.FQName(), synthResult.err)
			counters.IncRejected()
			continue
		}

		text := render.File(synthResult.file)
		if outDir != "" {
			destDir := filepath.Join(outDir, filepath.FromSlash(decl.Package))
			destPath := filepath.Join(destDir, "Fake"+decl.Name+".kt")
			if err := writeGenerated(destDir, destPath, text); err != nil {
				log.Warnf("failed writing %s: %v", destPath, err)
				counters.IncRejected()
				continue
			}
		}
		c.RecordGeneration(decl)
		counters.IncGenerated()
	}

	if err := c.Save(); err != nil {
		log.Warnf("failed to save cache: %v", err)
	}

	for _, stat := range timer.Breakdown() {
		log.Debugf("phase %s: %s over %d calls", stat.Phase, stat.Total, stat.Count)
	}
	log.Success(counters.Summary())
}

type transformOutcome struct {
	inputs *transform.CodeGenInputs
	err    error
}

type synthOutcome struct {
	file *codemodel.File
	err  error
}

func writeGenerated(destDir, destPath, text string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, []byte(text), 0o644)
}

func runCacheInfo(outDir string, log *telemetry.Logger) {
	c := cache.Load(outDir)
	log.Success(fmt.Sprintf("%d entries tracked in %s", c.Len(), filepath.Join(outDir, "fakegen-cache.txt")))
}

func runCollect(args []string, log *telemetry.Logger) {
	fs := flag.NewFlagSet("collect", flag.ExitOnError)
	producer := fs.String("producer", "", "Producer unit's emitted fake directory")
	common := fs.String("common", "", "Common source set root (fallback for unmatched packages)")
	commonName := fs.String("common-name", "commonMain", "Common source set name")
	dryRun := fs.Bool("dry-run", false, "Report the file-to-source-set mapping without copying")
	fs.Parse(args)

	if *producer == "" {
		fmt.Fprintf(os.Stderr, "%s: -producer is required for collect\n", red("error"))
		os.Exit(1)
	}

	result, err := collect.Collect(collect.Options{
		ProducerDir:   *producer,
		CommonSetName: *commonName,
		CommonRoot:    *common,
		Log:           log,
		DryRun:        *dryRun,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}
	log.Success(fmt.Sprintf("collected %d file(s)", result.Copied))
}

// runExplain is an interactive peterh/liner REPL that prints the
// canonical signature and digest of the fixture declaration whose
// fully-qualified name is typed at its prompt (spec §4's supplemented
// "explain" verb). Both are computed from the fixture; the stored
// cache is not read, so no comparison with a cached entry is shown.
func runExplain(fixturePath string, log *telemetry.Logger) {
	if fixturePath == "" {
		fmt.Fprintf(os.Stderr, "%s: -fixture is required for explain\n", red("error"))
		os.Exit(1)
	}
	resolver, err := hostadapter.LoadFixture(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}

	store := analyze.NewStore()
	analyzer := &analyze.Analyzer{Log: log}
	for _, raw := range resolver.All() {
		if d, err := analyze.Analyze(raw, resolver, analyzer); err == nil {
			store.Put(d)
		}
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println(bold("fakegen explain") + " - type a fully-qualified declaration name, or 'list', or 'quit'")
	for {
		input, err := line.Prompt("fakegen> ")
		if err != nil {
			return
		}
		line.AppendHistory(input)

		switch input {
		case "quit", "exit":
			return
		case "list":
			for _, d := range store.All() {
				fmt.Println(" ", d.FQName())
			}
		default:
			d, ok := store.Get(input)
			if !ok {
				fmt.Println(red("no such declaration: " + input))
				continue
			}
			fmt.Println(green("signature: "), cache.CanonicalSignature(d))
			fmt.Println(green("digest:    "), cache.Digest(d))
		}
	}
}
