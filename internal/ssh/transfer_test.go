package ssh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/randomgraphics/wine-droid/internal/config"
)

func stagingFiles(t *testing.T) map[string]bool {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "winedroid-*"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	set := make(map[string]bool, len(matches))
	for _, m := range matches {
		set[m] = true
	}
	return set
}

// PushContent must remove its staging file even when the transfer fails;
// here the push fails fast because nothing listens on the target port.
func TestPushContent_CleansUpStagingFileOnFailure(t *testing.T) {
	before := stagingFiles(t)

	client := NewClient(&config.DeviceConfig{Host: "127.0.0.1", Port: 1, User: "termux"})
	err := client.PushContent([]byte("#!/bin/sh\necho hi\n"), "/tmp/target.sh", ".sh")
	if err == nil {
		t.Fatal("expected push to an unreachable endpoint to fail")
	}

	after := stagingFiles(t)
	for path := range after {
		if !before[path] {
			t.Errorf("staging file %s left behind after failed push", path)
		}
	}
}

func TestPushFile_MissingLocalFile(t *testing.T) {
	client := NewClient(&config.DeviceConfig{Host: "127.0.0.1", Port: 1, User: "termux"})
	err := client.PushFile(filepath.Join(t.TempDir(), "missing"), "/tmp/x")
	if err == nil {
		t.Fatal("expected error for missing local file")
	}
}
