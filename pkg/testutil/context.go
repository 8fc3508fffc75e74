package testutil

import (
	"net/http"

	"datahub/pkg/requestcontext"
)

// WithActor stores a market actor in the request context.
// This simulates what the auth middleware does for authenticated requests.
func WithActor(req *http.Request, actorID, role string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actorID, role))
}
