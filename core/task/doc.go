// Package task defines deferred work handed from request workers to task
// workers.
//
// A request handler enqueues a payload through an Enqueuer; the host routes
// the resulting Task to a free task worker, which runs the handler registered
// under the task name. Task names are derived from the payload type, so the
// same struct is used on both sides:
//
//	type SendReceipt struct{ OrderID string }
//
//	reg := task.NewRegistry()
//	reg.Register(task.NewTaskHandler(func(ctx context.Context, p SendReceipt) error {
//		return mailer.Receipt(ctx, p.OrderID)
//	}))
//
//	// inside a request handler
//	err := env.Tasks.Enqueue(ctx, SendReceipt{OrderID: "42"})
package task
