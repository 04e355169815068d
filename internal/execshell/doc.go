// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines abstractions used throughout
// workspaces to run npm, git, and helper scripts in a testable manner. Every
// invocation receives its working directory explicitly; the process-wide
// current directory is never mutated, so concurrent invocations cannot race
// on shared directory state.
package execshell
