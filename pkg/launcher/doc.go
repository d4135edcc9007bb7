// Package launcher runs the browser side of an OAuth2 redirect flow.
//
// A Launcher takes an authorization URL and blocks until the provider
// redirects back (Success with the response parameters) or the attempt ends
// some other way (Cancel, Dismiss, Error). Loopback is the implementation
// for command-line hosts: it serves the redirect URI on a local port and
// opens the user's browser. Func adapts any function, which is how tests
// and embedding hosts plug in their own mechanism.
package launcher
