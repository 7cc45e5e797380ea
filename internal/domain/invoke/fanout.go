package invoke

import (
	"context"
	"strconv"
	"sync"

	"github.com/relaykit/relay/internal/domain/tool"
	"github.com/relaykit/relay/pkg/corrid"
)

// DefaultMaxInFlight bounds how many batch items run concurrently.
// The bound protects resources, not correctness; 0 disables it.
const DefaultMaxInFlight = 8

// fanOut dispatches one pipeline run per item, each with a child
// correlation id derived from parent, and collects the outcomes
// index-aligned with the input. One item's failure never touches its
// siblings; a cancellation leaves every item with a well-formed
// envelope (its real outcome for in-flight items, Cancelled for items
// that never started).
func fanOut(ctx context.Context, parent corrid.ID, desc tool.Descriptor, items []Args, h Handler, maxInFlight int) BatchResult {
	results := make(BatchResult, len(items))

	var sem chan struct{}
	if maxInFlight > 0 {
		sem = make(chan struct{}, maxInFlight)
	}

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					results[i] = Errf(KindCancelled, "batch cancelled before item %d started: %v", i, ctx.Err())
					return
				}
			}

			child := parent.Child(i)
			itemCtx := corrid.NewContext(ctx, child)
			results[i] = h(itemCtx, &Call{
				Desc:          desc,
				CorrelationID: child,
				Raw:           item,
			})
		}()
	}
	wg.Wait()

	return results
}

// validateBatchShape rejects malformed batch input before any dispatch:
// the input must be a non-nil sequence whose items are all map-shaped.
func validateBatchShape(items []Args) *Fault {
	if items == nil {
		return &Fault{Kind: KindInvalidBatchInput, Message: "batch input must be a sequence of argument maps"}
	}
	for i, item := range items {
		if item == nil {
			return &Fault{
				Kind:    KindInvalidBatchInput,
				Message: "batch item " + strconv.Itoa(i) + " is not an argument map",
			}
		}
	}
	return nil
}
