package taskpool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/workspaces/internal/taskpool"
)

const (
	testSerialOrderingCaseNameConstant   = "serial_ordering"
	testSerialFirstErrorCaseNameConstant = "serial_stops_at_first_error"
	testParallelSuccessCaseNameConstant  = "parallel_success"
	testParallelFailureCaseNameConstant  = "parallel_failure_propagates"
	testSerialWorkerLimitConstant        = 1
	testParallelWorkerLimitConstant      = 4
)

func TestForEachEmptyInputsSkipsOperation(testInstance *testing.T) {
	invocationCount := 0
	operationError := taskpool.ForEach(context.Background(), []string{}, testParallelWorkerLimitConstant, func(context.Context, string) error {
		invocationCount++
		return nil
	})

	require.NoError(testInstance, operationError)
	require.Zero(testInstance, invocationCount)
}

func TestForEachSerialExecution(testInstance *testing.T) {
	failingInputError := errors.New("third input failed")

	testCases := []struct {
		name               string
		inputs             []string
		failingInput       string
		expectedVisitOrder []string
		expectedError      error
	}{
		{
			name:               testSerialOrderingCaseNameConstant,
			inputs:             []string{"packages/cdn", "smc-util", "smc-hub"},
			expectedVisitOrder: []string{"packages/cdn", "smc-util", "smc-hub"},
		},
		{
			name:               testSerialFirstErrorCaseNameConstant,
			inputs:             []string{"packages/cdn", "smc-util", "smc-hub", "smc-webapp"},
			failingInput:       "smc-hub",
			expectedVisitOrder: []string{"packages/cdn", "smc-util", "smc-hub"},
			expectedError:      failingInputError,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			visitedInputs := []string{}
			operationError := taskpool.ForEach(context.Background(), testCase.inputs, testSerialWorkerLimitConstant, func(_ context.Context, input string) error {
				visitedInputs = append(visitedInputs, input)
				if input == testCase.failingInput {
					return failingInputError
				}
				return nil
			})

			require.Equal(testInstance, testCase.expectedVisitOrder, visitedInputs)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, operationError, testCase.expectedError)
				return
			}
			require.NoError(testInstance, operationError)
		})
	}
}

func TestForEachParallelExecution(testInstance *testing.T) {
	inputs := []int{0, 1, 2, 3, 4, 5, 6, 7}

	testInstance.Run(testParallelSuccessCaseNameConstant, func(testInstance *testing.T) {
		var visitedCount atomic.Int64
		operationError := taskpool.ForEach(context.Background(), inputs, testParallelWorkerLimitConstant, func(context.Context, int) error {
			visitedCount.Add(1)
			return nil
		})

		require.NoError(testInstance, operationError)
		require.Equal(testInstance, int64(len(inputs)), visitedCount.Load())
	})

	testInstance.Run(testParallelFailureCaseNameConstant, func(testInstance *testing.T) {
		failingInputError := errors.New("input rejected")
		operationError := taskpool.ForEach(context.Background(), inputs, testParallelWorkerLimitConstant, func(_ context.Context, input int) error {
			if input == 3 {
				return failingInputError
			}
			return nil
		})

		require.ErrorIs(testInstance, operationError, failingInputError)
	})
}

func TestForEachBoundsConcurrentWorkers(testInstance *testing.T) {
	inputs := make([]int, 32)
	for inputIndex := range inputs {
		inputs[inputIndex] = inputIndex
	}

	var activeWorkers int64
	var peakWorkers int64
	var peakMutex sync.Mutex

	operationError := taskpool.ForEach(context.Background(), inputs, testParallelWorkerLimitConstant, func(context.Context, int) error {
		currentWorkers := atomic.AddInt64(&activeWorkers, 1)
		peakMutex.Lock()
		if currentWorkers > peakWorkers {
			peakWorkers = currentWorkers
		}
		peakMutex.Unlock()
		atomic.AddInt64(&activeWorkers, -1)
		return nil
	})

	require.NoError(testInstance, operationError)
	require.LessOrEqual(testInstance, peakWorkers, int64(testParallelWorkerLimitConstant))
}

func TestMapCollectsOutputsInInputOrder(testInstance *testing.T) {
	inputs := []string{"packages/cdn", "smc-util", "smc-hub"}

	outputs, operationError := taskpool.Map(context.Background(), inputs, testParallelWorkerLimitConstant, func(_ context.Context, input string) (string, error) {
		return input + "/dist", nil
	})

	require.NoError(testInstance, operationError)
	require.Equal(testInstance, []string{"packages/cdn/dist", "smc-util/dist", "smc-hub/dist"}, outputs)
}

func TestMapEmptyInputsReturnsNil(testInstance *testing.T) {
	outputs, operationError := taskpool.Map(context.Background(), []string{}, testSerialWorkerLimitConstant, func(_ context.Context, input string) (string, error) {
		return input, nil
	})

	require.NoError(testInstance, operationError)
	require.Nil(testInstance, outputs)
}

func TestMapPropagatesFirstError(testInstance *testing.T) {
	mappingError := errors.New("mapping failed")

	outputs, operationError := taskpool.Map(context.Background(), []int{1, 2, 3}, testSerialWorkerLimitConstant, func(_ context.Context, input int) (int, error) {
		if input == 2 {
			return 0, mappingError
		}
		return input, nil
	})

	require.ErrorIs(testInstance, operationError, mappingError)
	require.Nil(testInstance, outputs)
}
