// Command ceiba-helper logs in to NTU CEIBA in a browser window and hands
// the session cookies to ceiba-dl.
//
// The controlling process talks to the helper over stdin and stdout:
//
//  1. write the login URL and the expected post-login URL, one per line
//  2. wait for the line OK, written once the browser reaches the expected
//     page through a redirect
//  3. write one cookie name per line and read exactly one line back for
//     each, the escaped cookie value or an empty line
//  4. write an empty line (or close stdin) and expect exit status 0
//
// Log output of both processes goes to stderr. Exit statuses:
//
//	0    clean shutdown
//	1-4  pipe, start, dup and stdio setup failures
//	5    renderer initialization failure
//	6    window closed by the user
//	7    stdin ended before both startup lines
//	8    stdin read error
//	128+N  helper killed by signal N
//
// Command-line arguments only form the window title.
//
// Configuration is read from the environment, see internal/config.
package main
