package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Extensions are executables named tcg-<name> found on the PATH. They receive
// the global flags through these variables.
const (
	EnvConfigFile = "TCG_CONFIG"
	EnvVerbose    = "TCG_VERBOSE"
)

// extensionEnv returns the environment of an extension. The configuration path
// is made absolute since the extension may change its working directory.
func extensionEnv() []string {
	config := *configFile
	if abs, err := filepath.Abs(config); err == nil {
		config = abs
	}
	return append(os.Environ(),
		EnvConfigFile+"="+config,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)
}

// RunExtension runs tcg-<name> with args when it exists, and reports its exit
// code. found is false when there is no such extension.
func RunExtension(name string, args []string) (found bool, code int) {
	path, err := exec.LookPath("tcg-" + name)
	if err != nil {
		return false, 0
	}
	ext := exec.Command(path, args...)
	ext.Stdin, ext.Stdout, ext.Stderr = os.Stdin, os.Stdout, os.Stderr
	ext.Env = extensionEnv()

	err = ext.Run()
	var exit *exec.ExitError
	switch {
	case err == nil:
		return true, 0
	case errors.As(err, &exit):
		return true, exit.ExitCode()
	default:
		fmt.Fprintf(os.Stderr, "Error: cannot run extension %s: %v\n", path, err)
		return true, 1
	}
}
