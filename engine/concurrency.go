package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cpcf/ngsyntax/generate"
)

// GenerateAll runs Generate for every request with at most the configured
// number of requests in flight. results[i] belongs to reqs[i] and is nil when
// that request failed.
//
// FailFast stops scheduling after the first failure and returns it.
// FailAtEnd processes everything and returns a *MultiError. BestEffort logs
// failures and returns no error. Cancelling ctx stops scheduling in every
// mode and returns the context's error.
func (e *Engine) GenerateAll(ctx context.Context, reqs []generate.Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	failed := make([]error, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, req := range reqs {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			result, err := e.Generate(gctx, req)
			if err != nil {
				if e.failMode == FailFast {
					return err
				}
				failed[i] = err
				return nil
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	var multiErr MultiError
	for i, err := range failed {
		if err == nil {
			continue
		}
		if e.failMode == BestEffort {
			e.logger.Error("request failed", "request", i, "directive", reqs[i].Directive, "error", err)
			continue
		}
		multiErr.AddError(fmt.Sprintf("requests[%d]", i), err)
	}

	return results, multiErr.ErrorOrNil()
}
