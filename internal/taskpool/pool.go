package taskpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkerLimit bounds concurrent task execution when callers do not configure a limit.
const DefaultWorkerLimit = 10

// ForEach applies the operation to every input, using at most workerLimit
// concurrent workers. An empty input slice returns immediately without
// invoking the operation or starting any goroutine. A workerLimit of one or
// less executes every input sequentially, in input order, in the calling
// goroutine, stopping at the first failure. Otherwise the first error
// encountered is propagated to the caller after dispatched siblings finish.
func ForEach[TInput any](executionContext context.Context, inputs []TInput, workerLimit int, operation func(context.Context, TInput) error) error {
	if len(inputs) == 0 {
		return nil
	}

	if workerLimit <= 1 {
		for _, input := range inputs {
			if operationError := operation(executionContext, input); operationError != nil {
				return operationError
			}
		}
		return nil
	}

	workerGroup, groupContext := errgroup.WithContext(executionContext)
	workerGroup.SetLimit(workerLimit)

	for _, input := range inputs {
		input := input
		workerGroup.Go(func() error {
			return operation(groupContext, input)
		})
	}

	return workerGroup.Wait()
}

// Map applies the operation to every input and collects the outputs in input
// order. It shares ForEach's scheduling contract: empty inputs short-circuit,
// a worker limit of one runs serially in order, and the first error is
// propagated to the caller.
func Map[TInput any, TOutput any](executionContext context.Context, inputs []TInput, workerLimit int, operation func(context.Context, TInput) (TOutput, error)) ([]TOutput, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	outputs := make([]TOutput, len(inputs))

	if workerLimit <= 1 {
		for inputIndex, input := range inputs {
			output, operationError := operation(executionContext, input)
			if operationError != nil {
				return nil, operationError
			}
			outputs[inputIndex] = output
		}
		return outputs, nil
	}

	workerGroup, groupContext := errgroup.WithContext(executionContext)
	workerGroup.SetLimit(workerLimit)

	for inputIndex, input := range inputs {
		inputIndex, input := inputIndex, input
		workerGroup.Go(func() error {
			output, operationError := operation(groupContext, input)
			if operationError != nil {
				return operationError
			}
			outputs[inputIndex] = output
			return nil
		})
	}

	if waitError := workerGroup.Wait(); waitError != nil {
		return nil, waitError
	}

	return outputs, nil
}
