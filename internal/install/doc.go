// Package install implements the ci command, which installs dependencies for
// every selected workspace package.
//
// Installation is strictly serial: running npm ci concurrently across
// workspace packages corrupts the shared workspace state, so the package list
// is processed one directory at a time in selector order.
package install
