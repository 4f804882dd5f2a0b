// Package client provides the HTTP client used by the headless renderer.
//
// Built on go-resty/resty over a hashicorp/go-retryablehttp transport:
//   - Retries with exponential backoff on transport errors
//   - Connection pooling and keep-alive
//   - Context-based cancellation
//   - Caller-supplied cookie jar and redirect policy
//
// Example Usage:
//
//	c := client.NewClient(client.Options{Jar: jar, CheckRedirect: onHop})
//	resp, err := c.Get(ctx, "https://ceiba.ntu.edu.tw/")
package client
