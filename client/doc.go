// Package client provides the high-level HTTP client.
//
// A Client orchestrates one request end to end: it builds engine
// request parameters, attaches an UploadStreamer when a body is
// present, attaches a lifecycle bridge as the inbound event sink,
// starts the request, and awaits the bridge's single terminal outcome
// under the configured timeout and redirect policy.
//
// # Basic Usage
//
//	c, err := client.New(client.Config{Timeout: 10 * time.Second})
//	if err != nil { ... }
//	defer c.Close(context.Background())
//
//	resp, err := c.Get("https://example.com/")
//
// # Concurrency
//
// One Client should serve one logical caller flow at a time; for true
// concurrency instantiate independent clients (keep the population
// bounded, roughly fifty, to avoid exhausting engine resources). The
// recommendation is documented, not enforced.
package client
