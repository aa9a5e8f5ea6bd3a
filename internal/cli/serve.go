package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/dlf/internal/wizard"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(f *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the new-tenant wizard and metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, f, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func runServe(cmd *cobra.Command, f *rootFlags, addr string) error {
	e, err := openEnv(cmd, f)
	if err != nil {
		return err
	}
	defer e.close()

	if addr == "" {
		addr = e.settings.Server.Addr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return sysError(err)
	}
	return serve(cmd.Context(), ln, e)
}

// serve runs the wizard on ln until ctx is done.
func serve(ctx context.Context, ln net.Listener, e *env) error {
	w := wizard.New(e.newInitializer(), e.listView(), e.registry, e.log.Named("wizard"))
	srv := &http.Server{
		Handler:           w.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		e.log.Info("wizard listening", zap.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return sysError(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return sysError(err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return sysError(err)
	}
	e.log.Info("wizard stopped")
	return nil
}
