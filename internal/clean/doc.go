// Package clean implements the clean command, which deletes node_modules and
// dist directories across selected workspace packages and then runs each
// package's own clean script when one exists.
//
// Directory deletion and the per-package clean scripts are safe under
// concurrency, so both phases fan out through the bounded task pool.
package clean
