package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// restoreLog puts the standard logger back after a test redirects it.
func restoreLog(t *testing.T) {
	t.Helper()
	out, prefix := log.Writer(), log.Prefix()
	t.Cleanup(func() {
		log.SetOutput(out)
		log.SetPrefix(prefix)
	})
}

func TestRedirectLogToFile(t *testing.T) {
	restoreLog(t)
	path := filepath.Join(t.TempDir(), "hearts.log")

	var warn bytes.Buffer
	closeLog := redirectLog(path, &warn)
	log.Printf("[INFO] hello")
	closeLog()

	if warn.Len() != 0 {
		t.Errorf("expected no warning, got %q", warn.String())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "[INFO] hello") {
		t.Errorf("expected log line in file, got %q", b)
	}
}

func TestRedirectLogFallsBackToDiscard(t *testing.T) {
	restoreLog(t)
	// A path below a regular file can never be opened.
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(blocker, "hearts.log")

	var warn bytes.Buffer
	closeLog := redirectLog(path, &warn)
	defer closeLog()

	if !strings.Contains(warn.String(), "logging disabled") {
		t.Errorf("expected a warning before startup, got %q", warn.String())
	}
	if log.Writer() != io.Discard {
		t.Error("expected the logger to discard output")
	}
}

func TestWritePID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hearts-tui.pid")
	if err := writePID(path); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(path)
	if strings.TrimSpace(string(b)) == "" {
		t.Error("expected the pid to be written")
	}

	if err := writePID(filepath.Join(path, "nested")); err == nil {
		t.Error("expected an error for an unwritable path")
	}
}
