package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// ParseUserDirs reads an xdg-user-dirs file and returns its variables with
// $HOME expanded. Lines that do not parse are skipped.
//
//	XDG_DESKTOP_DIR="$HOME/Desktop"
func ParseUserDirs(rd io.Reader, home string) (map[string]string, error) {
	dirs := make(map[string]string)
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, raw, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		tokens, err := shlex.Split(raw)
		if err != nil || len(tokens) != 1 {
			continue
		}
		dirs[strings.TrimSpace(key)] = expandHome(tokens[0], home)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan user dirs: %w", err)
	}
	return dirs, nil
}

func expandHome(value, home string) string {
	switch {
	case value == "$HOME":
		return home
	case strings.HasPrefix(value, "$HOME/"):
		return filepath.Join(home, strings.TrimPrefix(value, "$HOME/"))
	case value == "~":
		return home
	case strings.HasPrefix(value, "~/"):
		return filepath.Join(home, strings.TrimPrefix(value, "~/"))
	}
	return value
}

// DesktopDir resolves the desktop directory from the user-dirs file,
// falling back to home/Desktop when the file or the variable is absent.
func DesktopDir(userDirsFile, home string) string {
	fallback := filepath.Join(home, "Desktop")

	f, err := os.Open(userDirsFile)
	if err != nil {
		return fallback
	}
	defer f.Close()

	dirs, err := ParseUserDirs(f, home)
	if err != nil {
		return fallback
	}
	dir, ok := dirs["XDG_DESKTOP_DIR"]
	if !ok || !filepath.IsAbs(dir) {
		return fallback
	}
	return filepath.Clean(dir)
}

// ErrNoHome is returned when the home directory cannot be determined.
var ErrNoHome = errors.New("home directory unknown")
