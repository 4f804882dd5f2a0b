// Package renderer defines the page renderer the helper drives.
//
// A renderer loads the login page, reports load progress as events and
// answers cookie queries. Rendering, script execution and cookie policy
// belong to the implementation; the helper only consumes this contract.
//
// Implementations:
//   - providers/chromium: a visible Chromium window driven through CDP
//   - providers/headless: an HTTP client with a cookie jar and a JS sandbox
package renderer
