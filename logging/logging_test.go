package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lightsout.log")
	closeLog, err := Setup("debug", path)
	if err != nil {
		t.Fatal(err)
	}
	defer logrus.SetOutput(os.Stderr)

	logrus.WithField("row", 2).Debug("flip")
	if err := closeLog(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "msg=flip") || !strings.Contains(string(data), "row=2") {
		t.Fatalf("log line missing fields: %q", data)
	}
}

func TestSetupBadLevel(t *testing.T) {
	if _, err := Setup("chatty", filepath.Join(t.TempDir(), "x.log")); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestSetupUnwritablePathDiscards(t *testing.T) {
	closeLog, err := Setup("info", filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	if err != nil {
		t.Fatalf("unwritable log path should not be fatal: %v", err)
	}
	defer logrus.SetOutput(os.Stderr)
	if err := closeLog(); err != nil {
		t.Fatal(err)
	}
}
