// Package headless implements a renderer without a browser engine.
//
// Pages are fetched over HTTP and never executed. The renderer follows
// server redirects and <meta http-equiv="refresh"> hops, keeps an RFC 6265
// cookie jar that remembers HttpOnly flags, and evaluates cookie lookups
// in a goja sandbox whose document.cookie holds only script-visible
// cookies. This is enough for portals whose login completes through
// redirects once the user's session exists.
//
// Key Components:
//   - Renderer: load state machine and event stream
//   - Jar: cookie jar with HttpOnly bookkeeping
//   - page parsing: charset decoding, title and meta refresh
package headless
