package sana

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// CompileAll compiles independent rule sets concurrently, at most
// config.Parallelism at a time. The result is in the order of sets.
// The first failure cancels the remaining work.
func CompileAll[A comparable](ctx context.Context, sets []*RuleSet[A], config Config) ([]*IR[A], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	out := make([]*IR[A], len(sets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Parallelism)
	for i, rs := range sets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ir, err := CompileWithConfig(rs, config)
			if err != nil {
				config.logger().WithError(err).WithField("set", i).Debug("Rule set compilation failed")
				return fmt.Errorf("rule set %d: %w", i, err)
			}
			out[i] = ir
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Tokenize scans input to the end and returns its tokens, without the
// trailing Eoi. It fails with a *ScanError at the first unrecognized input.
func Tokenize[A comparable](ir *IR[A], input []byte) ([]Result[A], error) {
	return tokenize(ir, input, 0)
}

// TokenizeAll scans many inputs concurrently with one shared IR.
// out[i] holds the tokens of inputs[i].
func TokenizeAll[A comparable](ctx context.Context, ir *IR[A], inputs [][]byte) ([][]Result[A], error) {
	out := make([][]Result[A], len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tokens, err := tokenize(ir, input, i)
			if err != nil {
				return err
			}
			out[i] = tokens
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func tokenize[A comparable](ir *IR[A], input []byte, index int) ([]Result[A], error) {
	vm := NewVM(ir, input)
	var tokens []Result[A]
	for {
		r := vm.Run()
		switch r.Kind {
		case Eoi:
			return tokens, nil
		case Unrecognized:
			return nil, &ScanError{Input: index, Pos: r.Start}
		}
		tokens = append(tokens, r)
	}
}
