package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/workspaces/internal/utils"
)

const testContextWorkspaceRootConstant = "/monorepo"

func TestCommandContextAccessorRoundTripsWorkspaceRoot(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	decoratedContext := accessor.WithWorkspaceRoot(context.Background(), testContextWorkspaceRootConstant)
	workspaceRoot, available := accessor.WorkspaceRoot(decoratedContext)

	require.True(testInstance, available)
	require.Equal(testInstance, testContextWorkspaceRootConstant, workspaceRoot)
}

func TestCommandContextAccessorMissingValue(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	workspaceRoot, available := accessor.WorkspaceRoot(context.Background())

	require.False(testInstance, available)
	require.Empty(testInstance, workspaceRoot)
}

func TestCommandContextAccessorToleratesNilContext(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	decoratedContext := accessor.WithWorkspaceRoot(nil, testContextWorkspaceRootConstant)
	workspaceRoot, available := accessor.WorkspaceRoot(decoratedContext)

	require.True(testInstance, available)
	require.Equal(testInstance, testContextWorkspaceRootConstant, workspaceRoot)

	_, missingAvailable := accessor.WorkspaceRoot(nil)
	require.False(testInstance, missingAvailable)
}
