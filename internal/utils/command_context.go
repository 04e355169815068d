package utils

import "context"

const (
	workspaceRootContextKeyConstant = commandContextKey("workspaceRoot")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithWorkspaceRoot attaches the monorepo root directory to the provided context.
func (accessor CommandContextAccessor) WithWorkspaceRoot(parentContext context.Context, workspaceRoot string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, workspaceRootContextKeyConstant, workspaceRoot)
}

// WorkspaceRoot extracts the monorepo root directory from the provided context.
func (accessor CommandContextAccessor) WorkspaceRoot(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	workspaceRoot, workspaceRootAvailable := executionContext.Value(workspaceRootContextKeyConstant).(string)
	if !workspaceRootAvailable {
		return "", false
	}
	return workspaceRoot, true
}
