// Package handler defines the contract between the dispatcher and the
// embedded application.
//
// The dispatcher never hands a live http.ResponseWriter to the application.
// It adapts the transport request into a Request, calls Handler.Handle
// synchronously and translates the returned Response into wire output:
//
//	func (a *App) Handle(ctx context.Context, req *handler.Request) (*handler.Response, error) {
//		if req.Path == "/old" {
//			return handler.Redirect("/new", http.StatusMovedPermanently), nil
//		}
//		return handler.JSON(http.StatusOK, map[string]string{"hello": "world"})
//	}
//
// A non-empty Location header marks a redirect; the body of a redirect is
// never written. A missing Content-Type is written as application/json.
//
// Applications are created per worker by a Bootstrap function. Each call
// receives a fresh Env with its own event bus, so listeners registered during
// bootstrap belong to that application instance only.
package handler
