package dispatch

import "strings"

// Placeholder is replaced with the triggering file's path in every command.
const Placeholder = "%sniff_file_name%"

// Expand substitutes path for every placeholder occurrence. The path is
// inserted verbatim, without quoting.
func Expand(command, path string) string {
	return strings.ReplaceAll(command, Placeholder, path)
}

// expandBatches returns copies of batches with every command expanded.
func expandBatches(batches []Batch, path string) []Batch {
	out := make([]Batch, len(batches))
	for i, b := range batches {
		cmds := make([]string, len(b.Commands))
		for j, c := range b.Commands {
			cmds[j] = Expand(c, path)
		}
		out[i] = Batch{Commands: cmds, WorkingDir: b.WorkingDir}
	}
	return out
}
