package cli

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treetable/internal/server"
	terrors "github.com/matzehuels/treetable/pkg/errors"
)

// serveCommand creates the serve command, which exposes tables over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [files...]",
		Short: "Serve tree tables over HTTP",
		Long: `Serve starts an HTTP API for dragging rows of uploaded documents.

Files given on the command line are loaded as tables at startup and their
ids are printed. More tables can be uploaded with POST /tables.`,
		Example: `  treetable serve rows.json --addr :8420
  curl -X POST --data-binary @rows.json localhost:8420/tables`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config.Serve.Addr
			}
			if _, _, err := net.SplitHostPort(addr); err != nil {
				return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "bad listen address %q", addr)
			}

			srv := server.New(c.Logger, c.ioOptions())
			for _, path := range args {
				doc, err := c.loadDocument(path)
				if err != nil {
					return err
				}
				id := srv.AddDocument(doc, c.config.ExpandAll)
				printKeyValue(id.String(), path)
			}

			return c.listen(cmd.Context(), addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+defaultAddr+")")

	return cmd
}

// listen serves h on addr until ctx is cancelled, then shuts down gracefully.
func (c *CLI) listen(ctx context.Context, addr string, h http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- httpServer.ListenAndServe()
	}()
	printSuccess("Listening on %s", styleAccent.Render("http://"+addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
