// Package logging configures slog for sniff.
//
// By default logs go to stderr as text at info level. With --debug the level
// drops to debug and a JSON copy of every record is written to a size-rotated
// file under the XDG state directory.
package logging
