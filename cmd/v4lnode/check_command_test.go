package main

import (
	"os"
	"strings"
	"testing"
)

func TestCheckReportsDirectoriesAndNodes(t *testing.T) {
	env := setupCLITestEnv(t)
	env.tree.AddNode("video0")

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Directories ==")
	requireContains(t, out, "Device directory")
	requireContains(t, out, "== Device nodes ==")
	requireContains(t, out, "[WARN] not a character device")
}

func TestCheckFailsWhenSysfsMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.tree.SysfsDir); err != nil {
		t.Fatalf("remove sysfs: %v", err)
	}

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "preflight checks failed") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "none found")
}
