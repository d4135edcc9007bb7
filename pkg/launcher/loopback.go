package launcher

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/streamauth/pkg/logger"
)

// Config configures the loopback redirect receiver. The provider's redirect
// URL must point at http://<ListenAddr><CallbackPath>.
type Config struct {
	ListenAddr   string `env:"LAUNCHER_LISTEN_ADDR" envDefault:"localhost:3000"`
	CallbackPath string `env:"LAUNCHER_CALLBACK_PATH" envDefault:"/callback"`
}

// Loopback receives the provider's redirect on a short-lived local HTTP server.
//
// The implicit grant returns parameters in the URL fragment, which browsers
// do not send to servers, so the callback page forwards the fragment (or
// the query string, for error responses) to {callback}/complete.
type Loopback struct {
	cfg    Config
	opener Opener
	listen func() ([]net.Listener, error)
	logger *slog.Logger
}

var _ Launcher = (*Loopback)(nil)

// LoopbackOption configures a Loopback.
type LoopbackOption func(*Loopback)

// WithOpener replaces the browser opener.
func WithOpener(o Opener) LoopbackOption {
	return func(l *Loopback) {
		if o != nil {
			l.opener = o
		}
	}
}

// WithListener serves the next Launch on ln instead of binding ListenAddr.
func WithListener(ln net.Listener) LoopbackOption {
	return func(l *Loopback) {
		l.listen = func() ([]net.Listener, error) { return []net.Listener{ln}, nil }
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) LoopbackOption {
	return func(l *Loopback) {
		if log != nil {
			l.logger = log
		}
	}
}

// NewLoopback creates a loopback launcher.
func NewLoopback(cfg Config, opts ...LoopbackOption) *Loopback {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "localhost:3000"
	}
	if cfg.CallbackPath == "" {
		cfg.CallbackPath = "/callback"
	}
	cfg.CallbackPath = "/" + strings.Trim(cfg.CallbackPath, "/")

	l := &Loopback{
		cfg:    cfg,
		opener: OpenBrowser,
		logger: logger.Discard(),
	}
	l.listen = func() ([]net.Listener, error) { return bind(l.cfg.ListenAddr) }
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RedirectURL returns the URL the provider must redirect to.
func (l *Loopback) RedirectURL() string {
	return "http://" + l.cfg.ListenAddr + l.cfg.CallbackPath
}

// CheckRedirectURL returns ErrRedirectMismatch unless redirectURL points at
// the address and path this receiver serves.
func (l *Loopback) CheckRedirectURL(redirectURL string) error {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRedirectMismatch, err)
	}
	path := "/" + strings.Trim(u.Path, "/")
	if u.Scheme != "http" || !strings.EqualFold(u.Host, l.cfg.ListenAddr) || path != l.cfg.CallbackPath {
		return fmt.Errorf("%w: %s is not served by %s", ErrRedirectMismatch, redirectURL, l.RedirectURL())
	}
	return nil
}

// Launch serves the callback, opens authURL and waits for the redirect.
func (l *Loopback) Launch(ctx context.Context, authURL string) Result {
	listeners, err := l.listen()
	if err != nil {
		return Failure(err)
	}

	results := make(chan Result, 1)
	srv := &http.Server{
		Handler:           l.router(results),
		ReadHeaderTimeout: 10 * time.Second,
	}

	for _, ln := range listeners {
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.logger.ErrorContext(ctx, "callback server stopped", logger.Error(err), logger.Component("launcher"))
			}
		}()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := l.opener(ctx, authURL); err != nil {
		return Failure(err)
	}

	select {
	case res := <-results:
		l.logger.DebugContext(ctx, "redirect received", logger.Event(string(res.Type)), logger.Component("launcher"))
		return res
	case <-ctx.Done():
		return fromContext(ctx)
	}
}

// bind listens on addr. "localhost" is bound on both loopback families
// because browsers may resolve it to either; IPv6 is skipped when the host
// has none.
func bind(addr string) ([]net.Listener, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(host, "localhost") {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, err
		}
		return []net.Listener{ln}, nil
	}

	v4, err := net.Listen("tcp4", net.JoinHostPort("127.0.0.1", port))
	if err != nil {
		return nil, err
	}
	listeners := []net.Listener{v4}
	if v6, err := net.Listen("tcp6", net.JoinHostPort("::1", port)); err == nil {
		listeners = append(listeners, v6)
	}
	return listeners, nil
}

func (l *Loopback) router(results chan<- Result) http.Handler {
	deliver := func(res Result) {
		select {
		case results <- res:
		default:
		}
	}

	r := chi.NewRouter()
	r.Get(l.cfg.CallbackPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = callbackPage.Execute(w, l.cfg.CallbackPath)
	})
	r.Get(l.cfg.CallbackPath+"/complete", func(w http.ResponseWriter, req *http.Request) {
		deliver(Success(req.URL.Query()))
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte("Authorization received. You can close this window."))
	})
	r.Get(l.cfg.CallbackPath+"/cancel", func(w http.ResponseWriter, _ *http.Request) {
		deliver(Result{Type: ResultDismiss})
		_, _ = w.Write([]byte("Sign-in cancelled. You can close this window."))
	})
	return r
}

var callbackPage = template.Must(template.New("callback").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Signing in</title></head>
<body>
<p id="msg">Completing sign-in...</p>
<script>
(function () {
  var params = window.location.hash.substring(1) || window.location.search.substring(1);
  var base = {{.}};
  fetch(base + "/complete?" + params, {cache: "no-store"})
    .then(function (r) { return r.text(); })
    .then(function (t) { document.getElementById("msg").textContent = t; })
    .catch(function () { document.getElementById("msg").textContent = "Could not reach the application."; });
  history.replaceState(null, "", base);
})();
</script>
</body>
</html>
`))
