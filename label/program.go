package label

import (
	"fmt"
	"runtime"
	"strings"
	"unicode/utf8"
)

// windowsExecutableExtension is appended to Program paths on Windows when
// the caller didn't already supply one.
const windowsExecutableExtension = ".exe"

// Program is a validated executable path.
type Program string

// NewProgram validates path as UTF-8 and, on Windows, appends the
// platform executable extension if absent.
func NewProgram(path string) (Program, error) {
	return newProgramForOS(path, runtime.GOOS)
}

func newProgramForOS(path, goos string) (Program, error) {
	if !utf8.ValidString(path) {
		return "", fmt.Errorf("label: program path is not valid utf-8")
	}
	if goos == "windows" && !hasWindowsExecutableExtension(path) {
		path += windowsExecutableExtension
	}
	return Program(path), nil
}

func hasWindowsExecutableExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range []string{".exe", ".com", ".bat", ".cmd"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
