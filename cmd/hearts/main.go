// Hearts CLI: manage the heart particle preference and run headless
// simulations.
//
// Usage:
//
//	hearts <command> [flags]
//
// Commands:
//
//	toggle    Turn the effect on or off
//	status    Show the stored preference
//	simulate  Run a scripted scenario on virtual time
//	config    Print the effective configuration
//	version   Print version information
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Mr-Dark-debug/hearts/internal/config"
	"github.com/Mr-Dark-debug/hearts/internal/settings"
	"github.com/Mr-Dark-debug/hearts/internal/simulate"
	"github.com/Mr-Dark-debug/hearts/pkg/jsonutil"
)

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "toggle":
		cmdToggle()
	case "status":
		cmdStatus()
	case "simulate":
		cmdSimulate()
	case "config":
		cmdConfig()
	case "version":
		fmt.Printf("Hearts v%s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Hearts: heart particles for the terminal

Usage:
  hearts <command> [flags]

Commands:
  toggle     Turn the effect on or off (hearts toggle on|off)
  status     Show the stored preference
  simulate   Run a scripted scenario on virtual time
  config     Print the effective configuration
  version    Print version information

Run 'hearts <command> --help' for details on each command.`)
}

// cmdToggle persists the preference and notifies a running TUI.
func cmdToggle() {
	fs := flag.NewFlagSet("toggle", flag.ExitOnError)
	opts := addCommonFlags(fs)
	fs.Parse(os.Args[2:])

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected 'on' or 'off'")
		fs.Usage()
		os.Exit(1)
	}
	var enabled bool
	switch fs.Arg(0) {
	case "on", "true", "1":
		enabled = true
	case "off", "false", "0":
		enabled = false
	default:
		fmt.Fprintf(os.Stderr, "Error: expected 'on' or 'off', got %q\n", fs.Arg(0))
		os.Exit(1)
	}

	cfg := opts.load()
	store := openStore(cfg)
	defer store.Close()

	if err := settings.StoreEnabled(store, enabled); err != nil {
		log.Fatalf("Failed to save preference: %v", err)
	}

	notified, err := notifyRunning(cfg.Storage.PIDPath, enabled)
	if err != nil {
		log.Printf("[WARN] Could not notify running TUI: %v", err)
	}

	fmt.Printf("Hearts %s.\n", onOff(enabled))
	if notified {
		fmt.Println("  Running TUI updated.")
	}
}

// cmdStatus shows the stored preference and every persisted setting.
func cmdStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	opts := addCommonFlags(fs)
	outputFormat := fs.String("format", "text", "Output format: text, json")
	fs.Parse(os.Args[2:])

	cfg := opts.load()
	store := openStore(cfg)
	defer store.Close()

	enabled := settings.LoadEnabled(store)
	all, err := store.List()
	if err != nil {
		log.Fatalf("Failed to list settings: %v", err)
	}

	switch *outputFormat {
	case "json":
		fmt.Println(jsonutil.MustIndent(map[string]any{
			"enabled":  enabled,
			"db_path":  store.Path(),
			"settings": all,
		}))
	case "text":
		fmt.Printf("Hearts are %s.\n\n", onOff(enabled))
		fmt.Printf("  Database:  %s\n", store.Path())
		for _, s := range all {
			fmt.Printf("  %-24s %s\n", s.Key, jsonutil.TruncateString(jsonutil.CompactJSON(s.Value), 40))
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *outputFormat)
		os.Exit(1)
	}
}

// cmdSimulate runs a scenario and prints its report.
func cmdSimulate() {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	opts := addCommonFlags(fs)
	scenario := fs.String("scenario", "trail", "Scenario to run (flood, hidden, toggle, trail)")
	seed := fs.Uint64("seed", 1, "Random seed")
	constrained := fs.Bool("constrained", false, "Use the reduced particle limits")
	outputFormat := fs.String("format", "markdown", "Output format: markdown, json")
	samplesPath := fs.String("samples", "", "Write the sampled population series as CSV to this file")
	list := fs.Bool("list", false, "List the available scenarios and exit")
	fs.Parse(os.Args[2:])

	if *list {
		for _, name := range simulate.Names() {
			sc, _ := simulate.Lookup(name)
			fmt.Printf("  %-8s %s\n", sc.Name, sc.Description)
		}
		return
	}

	cfg := opts.load()
	report, err := simulate.Run(*scenario, simulate.Options{
		Config: cfg.ParticleConfig(*constrained),
		Seed:   *seed,
	})
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	if *samplesPath != "" {
		if err := writeSamples(*samplesPath, report); err != nil {
			log.Fatalf("Failed to write samples: %v", err)
		}
	}

	switch *outputFormat {
	case "json":
		fmt.Println(jsonutil.MustIndent(report))
	case "markdown":
		fmt.Print(simulate.FormatReport(report))
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *outputFormat)
		os.Exit(1)
	}

	if !report.OK() {
		os.Exit(2)
	}
}

func writeSamples(path string, report *simulate.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return simulate.WriteSamples(f, report)
}

// cmdConfig prints the effective configuration as YAML.
func cmdConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	opts := addCommonFlags(fs)
	fs.Parse(os.Args[2:])

	b, err := opts.load().Dump()
	if err != nil {
		log.Fatalf("Failed to encode config: %v", err)
	}
	fmt.Print(string(b))
}

// ────────────────────────────────────────────────────────────
// Shared flags
// ────────────────────────────────────────────────────────────

type commonFlags struct {
	configPath *string
	dbPath     *string
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		configPath: fs.String("config", config.UserConfigPath(), "Path to a YAML config file"),
		dbPath:     fs.String("db", "", "Path to the settings database (overrides config)"),
	}
}

func (f commonFlags) load() *config.Config {
	cfg, err := config.Load(*f.configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *f.dbPath != "" {
		cfg.Storage.DBPath = *f.dbPath
	}
	return cfg
}

func openStore(cfg *config.Config) *settings.DBService {
	dbDir := filepath.Dir(cfg.Storage.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create database directory %s: %v", dbDir, err)
	}
	store, err := settings.NewDBService(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return store
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
