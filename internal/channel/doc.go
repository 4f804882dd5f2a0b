// Package channel implements the helper's line-oriented command channel.
//
// The helper reads two startup lines from stdin, the login URL and the
// expected post-login URL, loads the login page and waits for the renderer
// to reach the expected page through a redirect. It then writes OK to the
// result channel and answers one cookie name per stdin line with exactly
// one result line. A blank line or end of input ends the session.
//
// Key Components:
//   - Channel: the event loop driving the two states
//   - lineReader: hands out one stdin line per request
//   - Escape: GLib g_strescape compatible quoting of result values
//
// Only one lookup is in flight at any time. The next stdin line is not
// requested until the previous result line has been written, so the
// controlling process can pair requests and responses by order alone.
package channel
