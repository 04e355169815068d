// Package taskpool provides bounded parallel fan-out over homogeneous inputs.
//
// It exists for short-lived blocking subprocess work that is safe to run
// concurrently, such as deleting build directories or running per-package npm
// scripts. A worker limit of one degrades to strict in-order serial execution
// in the calling goroutine, which serial-only operations rely on.
package taskpool
