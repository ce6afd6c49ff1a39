package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/suke199800/tree/internal/ctxutil"
)

type HTTPServer struct {
	srv  *http.Server
	addr net.Addr
	errc chan error
}

// StartHTTP слушает addr и обслуживает h до отмены ctx, затем аккуратно гасит сервер.
func StartHTTP(ctx context.Context, addr string, h http.Handler, log *zap.SugaredLogger) (*HTTPServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s := &HTTPServer{srv: srv, addr: ln.Addr(), errc: make(chan error, 1)}

	go func() {
		defer close(s.errc)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("http server stopped", "err", err)
			s.errc <- err
		}
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := ctxutil.WithTimeout(context.Background(), ctxutil.DefaultShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	log.Infow("http server listening", "addr", s.addr.String())
	return s, nil
}

func (s *HTTPServer) Addr() string { return s.addr.String() }

// Done закрывается после остановки сервера; ошибка приходит, если он упал сам.
func (s *HTTPServer) Done() <-chan error { return s.errc }
