// Hearts TUI: heart particles that follow the mouse around the terminal.
//
// Usage:
//
//	hearts-tui [flags]
//
// Flags:
//
//	--config       Path to a YAML config overlay (default: ~/.hearts/config.yaml if present)
//	--db           Path to the settings database (default: ~/.hearts/hearts.db)
//	--constrained  Use the reduced particle limits (auto-detected over SSH)
//
// On Unix, SIGUSR1 turns the effect on and SIGUSR2 turns it off.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Mr-Dark-debug/hearts/internal/config"
	"github.com/Mr-Dark-debug/hearts/internal/settings"
	"github.com/Mr-Dark-debug/hearts/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	configPath := flag.String("config", config.UserConfigPath(), "Path to a YAML config file")
	dbPath := flag.String("db", "", "Path to the settings database (overrides config)")
	constrained := flag.Bool("constrained", config.DetectConstrained(os.Getenv), "Use the reduced particle limits")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Storage.DBPath = *dbPath
	}

	// run returns before exiting so its deferred cleanup always happens.
	if err := run(cfg, *constrained); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, constrained bool) error {
	dataDir := filepath.Dir(cfg.Storage.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", dataDir, err)
	}

	closeLog := redirectLog(cfg.Storage.LogPath, os.Stderr)
	defer closeLog()

	var store settings.Store
	db, err := settings.NewDBService(cfg.Storage.DBPath)
	if err != nil {
		log.Printf("[WARN] Settings database unavailable, preference will not persist: %v", err)
		store = settings.NewMemoryStore()
	} else {
		store = db
	}
	defer store.Close()

	model := tui.NewModel(tui.Options{
		Particles:   cfg.ParticleConfig(constrained),
		Display:     cfg.Display,
		Store:       store,
		Constrained: constrained,
	})
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)

	if err := writePID(cfg.Storage.PIDPath); err != nil {
		log.Printf("[WARN] %v", err)
	}
	defer os.Remove(cfg.Storage.PIDPath)

	stop := watchSignals(p)
	defer stop()

	log.Printf("[INFO] Starting (db=%s, constrained=%v)", cfg.Storage.DBPath, constrained)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// redirectLog sends the standard logger to the file at path so nothing
// is written over the alternate screen. If the file cannot be opened the
// problem is reported on warn, before the screen is taken over, and
// logging is discarded. The returned function closes the file.
func redirectLog(path string, warn io.Writer) func() {
	f, err := tea.LogToFile(path, "hearts")
	if err != nil {
		fmt.Fprintf(warn, "Warning: logging disabled, cannot open %s: %v\n", path, err)
		log.SetOutput(io.Discard)
		return func() {}
	}
	return func() { f.Close() }
}

// writePID records this process so `hearts toggle` can reach it.
func writePID(path string) error {
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}
	return nil
}
