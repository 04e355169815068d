// Package release groups the version-oriented commands: version-check,
// status, diff, and publish.
//
// status and diff compare each package against the commit that last changed
// the version field of its manifest, located through git blame. publish is a
// deliberate stub: it accepts the version bump flags but only prints each
// package's working tree status, performing no version mutation, commit, or
// registry push.
package release
