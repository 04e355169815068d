// Package workspace computes the ordered list of monorepo packages a command
// operates on.
//
// Selection starts from a fixed-order seed list (build correctness depends on
// that order because later packages consume artifacts produced by earlier
// ones), appends every other directory discovered under the packages root,
// and finally narrows the list with an optional comma-separated substring
// filter over each package's final path segment.
package workspace
