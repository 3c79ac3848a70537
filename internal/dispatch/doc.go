// Package dispatch turns filesystem write notifications into shell commands.
//
// For each notification the Engine runs three stages:
//   - Filter: ignored file names, ignored directory substrings, then cooldown
//   - Match: every rule whose key matches the path, in configuration order
//   - Dispatch: placeholder substitution and handoff to the command runner
//
// The only state carried between events is the time of the last accepted
// event. It is owned by the Engine, which processes events one at a time.
//
// Usage:
//
//	eng := dispatch.New(cfg.Rules, cfg.Settings, runner.New())
//	if err := eng.Run(ctx, w); err != nil {
//	    return err
//	}
package dispatch
