// Package npmrun implements the npm passthrough command, which runs an
// arbitrary npm invocation in every selected workspace package through the
// bounded task pool.
package npmrun
