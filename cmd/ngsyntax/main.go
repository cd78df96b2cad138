// Command ngsyntax turns a structural directive's micro-syntax binding into
// an <ng-template> skeleton and a matching TypeScript directive.
//
// Usage:
//
//	ngsyntax render --tag li --directive ngFor --binding "let item of items"
//	ngsyntax batch --config batch.yaml
//	ngsyntax link --tag li --directive ngFor --binding "let item of items"
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
