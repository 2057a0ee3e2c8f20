package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/urfave/cli/v2"

	"github.com/gridsec/https-utils/cmd/flags"
	"github.com/gridsec/https-utils/connector"
	"github.com/gridsec/https-utils/httpserver"
	"github.com/gridsec/https-utils/validator"
	"github.com/gridsec/https-utils/workpool"
)

func main() {
	app := &cli.App{
		Name:   "https-server",
		Usage:  "Serve HTTPS with externally validated client certificate chains",
		Flags:  append(append(append([]cli.Flag{}, flags.ConnectorFlags...), flags.ThreadPoolFlags...), flags.CommonFlags...),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	certValidator, err := validator.NewFromFiles(cCtx.String(flags.CAFileFlag.Name))
	if err != nil {
		logger.Error("Failed to load CA bundle", "err", err)
		return err
	}

	srv, err := httpserver.New(flags.ConfigureServer(cCtx, logger), demoHandler())
	if err != nil {
		logger.Error("Failed to create HTTP server", "err", err)
		return err
	}

	poolBuilder := workpool.NewThreadPoolBuilder().
		WithMaxThreads(cCtx.Int(flags.MaxThreadsFlag.Name)).
		WithMinThreads(cCtx.Int(flags.MinThreadsFlag.Name)).
		WithMaxRequestQueueSize(cCtx.Int(flags.MaxQueueSizeFlag.Name))
	if srv.Metrics() != nil {
		poolBuilder = poolBuilder.Registry(srv.Metrics().Registry())
	}
	pool := poolBuilder.Build()

	srv.Inner().Handler = pool.Middleware(srv.Inner().Handler)

	builder, err := connector.NewTLSServerConnectorBuilder(srv.Inner(), certValidator)
	if err != nil {
		logger.Error("Failed to create connector builder", "err", err)
		return err
	}

	builder = builder.
		WithPort(cCtx.Int(flags.PortFlag.Name)).
		WithCertificateFile(cCtx.String(flags.CertificateFileFlag.Name)).
		WithCertificateKeyFile(cCtx.String(flags.CertificateKeyFileFlag.Name)).
		WithNeedClientAuth(cCtx.Bool(flags.NeedClientAuthFlag.Name)).
		WithWantClientAuth(cCtx.Bool(flags.WantClientAuthFlag.Name))

	if password := cCtx.String(flags.CertificateKeyPasswordFlag.Name); password != "" {
		builder = builder.WithCertificateKeyPassword([]byte(password))
	}
	if protocols := cCtx.StringSlice(flags.IncludeProtocolsFlag.Name); protocols != nil {
		builder = builder.WithIncludeProtocols(protocols...)
	}
	if protocols := cCtx.StringSlice(flags.ExcludeProtocolsFlag.Name); protocols != nil {
		builder = builder.WithExcludeProtocols(protocols...)
	}
	if suites := cCtx.StringSlice(flags.IncludeCipherSuitesFlag.Name); suites != nil {
		builder = builder.WithIncludeCipherSuites(suites...)
	}
	if suites := cCtx.StringSlice(flags.ExcludeCipherSuitesFlag.Name); suites != nil {
		builder = builder.WithExcludeCipherSuites(suites...)
	}

	conn, err := builder.Build()
	if err != nil {
		logger.Error("Failed to build TLS connector", "err", err)
		return err
	}

	srv.AttachConnector(conn)
	srv.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	<-exit

	logger.Info("Shutting down")
	srv.Shutdown()
	pool.StopAndWait()
	return nil
}

func demoHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}
