package launcher

import "errors"

// ErrRedirectMismatch indicates a redirect URL the loopback receiver does not serve.
var ErrRedirectMismatch = errors.New("launcher.redirect_mismatch")
