package rules

import (
	"path/filepath"
	"strings"
)

const separators = "/" + string(filepath.Separator)

// Split breaks path at its final separator. A bare file name has an empty
// parent.
func Split(path string) (parent, base string) {
	i := strings.LastIndexAny(path, separators)
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// Extension returns the text after the final '.' of the base name, without
// the dot. Names with no dot, dot-files like ".bashrc" and names ending in a
// dot have no extension.
func Extension(path string) (string, bool) {
	_, base := Split(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return "", false
	}
	return base[i+1:], true
}
