package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestExtensionMechanism(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts in this test")
	}
	tempDir := t.TempDir()
	out := filepath.Join(tempDir, "out.txt")

	script := `#!/bin/sh
echo "TCG_CONFIG=$TCG_CONFIG" > "$TCG_TEST_OUT"
echo "TCG_VERBOSE=$TCG_VERBOSE" >> "$TCG_TEST_OUT"
echo "ARGS=$*" >> "$TCG_TEST_OUT"
exit 3
`
	if err := os.WriteFile(filepath.Join(tempDir, "tcg-hello"), []byte(script), 0o755); err != nil {
		t.Fatalf("Failed to write tcg-hello: %v", err)
	}
	t.Setenv("PATH", tempDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("TCG_TEST_OUT", out)

	oldConfig := *configFile
	*configFile = filepath.Join(tempDir, "custom.yaml")
	defer func() { *configFile = oldConfig }()

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found {
		t.Fatal("RunExtension() did not find tcg-hello")
	}
	if code != 3 {
		t.Errorf("RunExtension() exit code = %d, want 3", code)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("extension did not run: %v", err)
	}
	for _, want := range []string{
		"TCG_CONFIG=" + filepath.Join(tempDir, "custom.yaml"),
		"TCG_VERBOSE=false",
		"ARGS=a b",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("extension output does not contain %q:\n%s", want, data)
		}
	}

	if found, _ := RunExtension("missing-extension", nil); found {
		t.Error("RunExtension() found a missing extension")
	}
}
