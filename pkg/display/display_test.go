package display

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var snapshotPattern = regexp.MustCompile(`^\d{8}_\d{6}_[0-9a-f]{8}\.png$`)

func TestSnapshotName(t *testing.T) {
	path := SnapshotName("shots", "png")

	if dir := filepath.Dir(path); dir != "shots" {
		t.Errorf("dir = %q, want shots", dir)
	}
	if base := filepath.Base(path); !snapshotPattern.MatchString(base) {
		t.Errorf("name = %q, want timestamp_uuid.png", base)
	}
}

func TestSnapshotName_NoCollisions(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		path := SnapshotName("shots", "png")
		if seen[path] {
			t.Fatalf("duplicate snapshot name %q", path)
		}
		seen[path] = true
	}
}

func TestSnapshotName_Extension(t *testing.T) {
	if path := SnapshotName("", "jpg"); !strings.HasSuffix(path, ".jpg") {
		t.Errorf("path = %q, want .jpg suffix", path)
	}
}
