// Package watcher provides recursive filesystem watching for sniff.
//
// The package implements a hybrid watching strategy:
//   - Primary: fsnotify for efficient event-based watching
//   - Fallback: Polling for environments where fsnotify fails (network mounts, Docker volumes)
//
// Events carry the absolute path of the changed file. Directories whose path
// contains an ignored substring are never watched. No debouncing happens
// here; consumers decide how to collapse bursts.
//
// Usage:
//
//	w, err := watcher.NewHybridWatcher(watcher.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	go w.Start(ctx, root)
//
//	for event := range w.Events() {
//	    if event.Operation == watcher.OpModify {
//	        // Handle file write
//	    }
//	}
package watcher
