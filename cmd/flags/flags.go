// Package flags holds the CLI flags and setup helpers shared by the
// module's commands.
package flags

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/gridsec/https-utils/common"
	"github.com/gridsec/https-utils/connector"
	"github.com/gridsec/https-utils/httpserver"
	"github.com/gridsec/https-utils/workpool"
)

// SetupLogger builds the process logger from the common logging flags.
func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJSONFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUIDFlag.Name)
	logService := cCtx.String(LogServiceFlag.Name)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

// ConfigureServer assembles the HTTP server config from the common
// server flags.
func ConfigureServer(cCtx *cli.Context, logger *slog.Logger) *httpserver.HTTPServerConfig {
	metricsAddr := cCtx.String(MetricsAddrFlag.Name)
	enablePprof := cCtx.Bool(PprofFlag.Name)
	drainDuration := time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second

	return &httpserver.HTTPServerConfig{
		MetricsAddr:              metricsAddr,
		Log:                      logger,
		EnablePprof:              enablePprof,
		DrainDuration:            drainDuration,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

var PortFlag = &cli.IntFlag{
	Name:  "port",
	Value: 8443,
	Usage: "port the TLS connector binds to",
}

var CertificateFileFlag = &cli.StringFlag{
	Name:  "certificate-file",
	Value: connector.DefaultCertificateFile,
	Usage: "PEM service certificate file",
}

var CertificateKeyFileFlag = &cli.StringFlag{
	Name:  "certificate-key-file",
	Value: connector.DefaultCertificateKeyFile,
	Usage: "PEM service certificate private key file",
}

var CertificateKeyPasswordFlag = &cli.StringFlag{
	Name:  "certificate-key-password",
	Usage: "password for an encrypted certificate private key",
}

var CAFileFlag = &cli.StringFlag{
	Name:     "ca-file",
	Required: true,
	Usage:    "PEM bundle of CA certificates trusted for peer chains",
}

var NeedClientAuthFlag = &cli.BoolFlag{
	Name:  "need-client-auth",
	Value: false,
	Usage: "require a client certificate on every connection",
}

var WantClientAuthFlag = &cli.BoolFlag{
	Name:  "want-client-auth",
	Value: true,
	Usage: "request, but do not require, a client certificate",
}

var IncludeProtocolsFlag = &cli.StringSliceFlag{
	Name:  "include-protocols",
	Usage: "TLS protocol versions to enable (e.g. TLSv1.2,TLSv1.3)",
}

var ExcludeProtocolsFlag = &cli.StringSliceFlag{
	Name:  "exclude-protocols",
	Usage: "TLS protocol versions to disable",
}

var IncludeCipherSuitesFlag = &cli.StringSliceFlag{
	Name:  "include-cipher-suites",
	Usage: "cipher suites to enable, by IANA name",
}

var ExcludeCipherSuitesFlag = &cli.StringSliceFlag{
	Name:  "exclude-cipher-suites",
	Usage: "cipher suites to disable, by IANA name",
}

var MaxThreadsFlag = &cli.IntFlag{
	Name:  "max-threads",
	Value: workpool.MaxThreads,
	Usage: "maximum number of request workers",
}

var MinThreadsFlag = &cli.IntFlag{
	Name:  "min-threads",
	Value: workpool.MinThreads,
	Usage: "minimum number of resident request workers",
}

var MaxQueueSizeFlag = &cli.IntFlag{
	Name:  "max-queue-size",
	Value: workpool.MaxRequestQueueSize,
	Usage: "capacity of the request work queue",
}

var LogJSONFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}

var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}

var LogUIDFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: common.PackageName,
	Usage: "add 'service' tag to logs",
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}

var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}

var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics",
}

var CommonFlags = []cli.Flag{
	LogJSONFlag,
	LogDebugFlag,
	LogUIDFlag,
	LogServiceFlag,
	PprofFlag,
	DrainSecondsFlag,
	MetricsAddrFlag,
}

var ConnectorFlags = []cli.Flag{
	PortFlag,
	CertificateFileFlag,
	CertificateKeyFileFlag,
	CertificateKeyPasswordFlag,
	CAFileFlag,
	NeedClientAuthFlag,
	WantClientAuthFlag,
	IncludeProtocolsFlag,
	ExcludeProtocolsFlag,
	IncludeCipherSuitesFlag,
	ExcludeCipherSuitesFlag,
}

var ThreadPoolFlags = []cli.Flag{
	MaxThreadsFlag,
	MinThreadsFlag,
	MaxQueueSizeFlag,
}
