// Package dispatch routes one HTTP request through the static gate, the
// response cache and finally the embedded application.
//
// Pipeline.Dispatch runs an ordered chain of gates. The first gate that
// serves the request ends dispatch. When no gate serves it, the request is
// adapted into a handler.Request, the application is called synchronously and
// its response is translated onto the wire:
//
//   - a non-empty Location header writes Location and the status, never a body
//   - otherwise Content-Type (default application/json), status and body
//
// Every failure inside the pipeline (application error, malformed request,
// panic in a gate or in the application) is logged once with its type, code,
// message, source location and stack, and answered with status 500 and the
// body "Oops! An unexpected error occurred.". Nothing escapes Dispatch.
//
//	p := dispatch.NewPipeline(app,
//		dispatch.WithStatic(staticGate),
//		dispatch.WithCache(cacheGate),
//		dispatch.WithLogger(log),
//	)
//	p.Dispatch(w, r)
package dispatch
