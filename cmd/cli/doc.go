// Package cli wires the workspaces command hierarchy, configuration loading,
// and structured logging into an executable application.
package cli
