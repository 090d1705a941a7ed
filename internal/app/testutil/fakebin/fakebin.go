// Package fakebin writes throwaway shell scripts that stand in for ffmpeg,
// ffprobe and whisper.cpp in tests.
package fakebin

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

// Write creates an executable /bin/sh script named name in a temp directory
// and returns its path. body is the script without the shebang line.
func Write(t testing.TB, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake binaries need a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), name)
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake binary %s: %v", name, err)
	}
	return path
}

// Echo returns a script that prints stdout and stderr and exits with code
func Echo(t testing.TB, name, stdout, stderr string, code int) string {
	t.Helper()

	dir := t.TempDir()
	outFile := filepath.Join(dir, "stdout")
	errFile := filepath.Join(dir, "stderr")
	if err := os.WriteFile(outFile, []byte(stdout), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(errFile, []byte(stderr), 0644); err != nil {
		t.Fatal(err)
	}
	return Write(t, name, "cat '"+outFile+"'\ncat '"+errFile+"' >&2\nexit "+strconv.Itoa(code))
}

// ArgsLog returns a script that appends its arguments, one per line, to a log
// file and then runs body. The log path is returned second.
func ArgsLog(t testing.TB, name, body string) (string, string) {
	t.Helper()

	logFile := filepath.Join(t.TempDir(), name+".args")
	script := "for a in \"$@\"; do printf '%s\\n' \"$a\" >> '" + logFile + "'; done\n" + body
	return Write(t, name, script), logFile
}
