// Package spacex is the data access gateway for the public SpaceX v4 API.
//
// Usage:
//
//	client, err := spacex.New(spacex.DefaultBaseURL, spacex.WithTimeout(30*time.Second))
//	past, err := client.PastLaunches(ctx)
//	rockets, err := client.RocketsByIDs(ctx, []string{"5e9d0d95eda69973a809d1ec"})
//
// Every call blocks until the response is decoded or fails. Failures are
// returned unchanged: transport errors wrapped with the operation name, non-2xx
// responses as *APIError, malformed bodies as *DecodeError. Batched lookups
// issue one request per identifier concurrently and fail as a whole on the
// first error.
package spacex
