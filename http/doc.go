// Package http is a small request dispatcher over a fetch-style Transport.
//
// An Instance is bound to a base URL and carries a mutable Options layer.
// Every call merges four layers, later ones winning key by key: built-in
// defaults (Accept and Content-Type set to application/json, JSON responses),
// the process-wide Defaults, the instance Options, and the Options passed to
// the call. Headers can be removed by any layer with Remove; an empty string
// is a real header value.
//
// Basic Usage:
//
//	users := http.New("https://api.example.com/users")
//
//	// GET https://api.example.com/users/2
//	user, err := users.Get(ctx, 2)
//
//	// POST https://api.example.com/users?notify=true with a JSON body
//	created, err := users.Post(ctx, map[string]any{"name": "Eduardo"}, &http.Options{
//	    Query: http.NewQuery("notify", true),
//	})
//
// Decoding into a struct:
//
//	var u User
//	_, err := users.Get(ctx, 2, &http.Options{Into: &u})
//
// Errors:
//
// Responses outside [200, 300) fail with an *Error carrying the status text,
// the raw Response and the decoded error body:
//
//	_, err := users.Get(ctx, 404)
//	var apiErr *http.Error
//	if errors.As(err, &apiErr) {
//	    fmt.Println(apiErr.StatusCode(), apiErr.Body)
//	}
//
// Transport failures are returned as the transport produced them. Nothing is
// retried.
//
// Thread Safety:
//
// An Instance may be used from many goroutines at once. Each call copies
// what it needs from Defaults and Instance.Options while building the
// request; changing either afterwards does not affect calls already in
// flight, but writes must not overlap with calls that are still building.
package http
