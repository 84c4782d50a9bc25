// Package server wraps the standard net/http server with graceful shutdown,
// functional options, and environment-based configuration.
//
// Basic usage:
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	eg, ctx := errgroup.WithContext(ctx)
//	eg.Go(srv.Run(ctx, mux))
//	return eg.Wait()
//
// The server stops accepting connections and drains in-flight requests when
// the context is cancelled, bounded by the configured shutdown timeout.
package server
