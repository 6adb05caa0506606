// Package authkeys merges OpenSSH authorized_keys files.
package authkeys

import (
	"sort"
	"strings"
)

// FileMode is the permission set applied to a merged authorized_keys file.
const FileMode = 0o600

// Merge returns the union of two authorized_keys files. Lines are compared by
// exact match after trimming trailing whitespace; blank lines are dropped and
// the result is sorted with a single trailing newline. Merging a file with
// itself (or with an empty file) is idempotent.
func Merge(a, b []byte) []byte {
	seen := make(map[string]struct{})
	var lines []string

	for _, content := range [][]byte{a, b} {
		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimRight(line, " \t\r")
			if line == "" {
				continue
			}
			if _, ok := seen[line]; ok {
				continue
			}
			seen[line] = struct{}{}
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return []byte{}
	}

	sort.Strings(lines)
	return []byte(strings.Join(lines, "\n") + "\n")
}
