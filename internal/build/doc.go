// Package build implements the build command, which compiles every selected
// workspace package in selector order.
//
// Like dependency installation, builds are strictly serial because concurrent
// npm builds across workspace packages subtly corrupt each other. Each
// package's stale dist directory is removed before its build runs, except for
// the static package, which manages its own output directory.
package build
