// Command browse-gw is a jabber:iq:browse gateway.
//
// The gateway connects to an XMPP server as an external component
// (XEP-0114) and answers browse queries by translating them into service
// discovery (disco#info, disco#items) and jabber:iq:version round trips.
//
// Usage:
//
//	browse-gw [flags]
//
// Flags:
//
//	-domain string       Component domain, e.g. browse.example.org
//	-server string       Server component port, host:port (default "127.0.0.1:5347")
//	-secret string       Shared component secret
//	-config string       YAML configuration file path
//	-log-level string    Log level: debug, info, warn, error (default "info")
//	-event-log string    File path for protocol event logging (CBOR format)
//	-mdns                Advertise the gateway via mDNS
//	-concat-identities   Merge all identities during classification
//	-timeout duration    Per-query timeout (default 10s)
//	-interactive         Start an interactive prompt for local browsing
//
// Flags override values from the configuration file.
//
// Examples:
//
//	# Connect with settings on the command line
//	browse-gw -domain browse.example.org -secret hunter2
//
//	# Connect with a config file, protocol log and mDNS presence
//	browse-gw -config /etc/browse-gw.yaml -event-log /var/log/browse-gw.cbor -mdns
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/browse-protocol/browse-go/pkg/browse"
	"github.com/browse-protocol/browse-go/pkg/component"
	"github.com/browse-protocol/browse-go/pkg/disco"
	"github.com/browse-protocol/browse-go/pkg/discovery"
	eventlog "github.com/browse-protocol/browse-go/pkg/log"
	"github.com/browse-protocol/browse-go/pkg/service"
	"github.com/browse-protocol/browse-go/pkg/stanza"
	"github.com/browse-protocol/browse-go/pkg/version"
)

// Config holds the gateway configuration. The YAML keys match the file
// format; flags override file values.
type Config struct {
	Domain           string        `yaml:"domain"`
	Server           string        `yaml:"server"`
	Secret           string        `yaml:"secret"`
	LogLevel         string        `yaml:"log-level"`
	EventLog         string        `yaml:"event-log"`
	MDNS             bool          `yaml:"mdns"`
	MDNSInterface    string        `yaml:"mdns-interface"`
	ConcatIdentities bool          `yaml:"concat-identities"`
	Timeout          string        `yaml:"timeout"`
	QueryTimeout     time.Duration `yaml:"-"`
}

var (
	domainFlag      = flag.String("domain", "", "Component domain, e.g. browse.example.org")
	serverFlag      = flag.String("server", "127.0.0.1:5347", "Server component port, host:port")
	secretFlag      = flag.String("secret", "", "Shared component secret")
	configFlag      = flag.String("config", "", "YAML configuration file path")
	logLevelFlag    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	eventLogFlag    = flag.String("event-log", "", "File path for protocol event logging (CBOR format)")
	mdnsFlag        = flag.Bool("mdns", false, "Advertise the gateway via mDNS")
	concatFlag      = flag.Bool("concat-identities", false, "Merge all identities during classification")
	timeoutFlag     = flag.Duration("timeout", disco.DefaultQueryTimeout, "Per-query timeout")
	interactiveFlag = flag.Bool("interactive", false, "Start an interactive prompt for local browsing")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogging(cfg.LogLevel)

	if cfg.Domain == "" {
		fmt.Fprintln(os.Stderr, "Error: component domain is required (-domain)")
		flag.Usage()
		os.Exit(1)
	}
	if cfg.Secret == "" {
		fmt.Fprintln(os.Stderr, "Error: component secret is required (-secret)")
		flag.Usage()
		os.Exit(1)
	}

	events, closeEvents, err := setupEventLog(cfg.EventLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeEvents()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := component.Dial(ctx, component.Config{
		Domain:  cfg.Domain,
		Address: cfg.Server,
		Secret:  cfg.Secret,
		Logger:  events,
		Slog:    logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: connecting component: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	gateway := disco.NewIQGateway(conn, cfg.QueryTimeout)
	defer gateway.Close()

	builder := browse.NewTreeBuilder(gateway, browse.NewResolver(nil), logger)

	svc, err := service.New(service.Config{
		Domain:           cfg.Domain,
		ConcatIdentities: cfg.ConcatIdentities,
	}, builder, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.MDNS {
		advertiser := discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{
			Interface: cfg.MDNSInterface,
			TTL:       discovery.DefaultAdvertiserConfig().TTL,
		})
		if err := advertiser.Advertise(ctx, &discovery.GatewayInfo{
			Domain:  cfg.Domain,
			Version: version.Number,
		}); err != nil {
			logger.Warn("mDNS advertising failed", "error", err)
		} else {
			defer advertiser.Stop()
			logger.Info("advertising via mDNS",
				"instance", discovery.InstanceName(cfg.Domain))
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- conn.Serve(ctx, func(iq *stanza.IQ) {
			if iq.IsResponse() {
				if !gateway.HandleReply(iq) {
					logger.Debug("dropping unmatched reply", "id", iq.ID, "from", iq.From)
				}
				return
			}
			// Requests trigger their own outbound queries; answering on the
			// read loop would deadlock reply correlation.
			go func() {
				if reply := svc.HandleIQ(ctx, iq); reply != nil {
					if err := conn.Send(ctx, reply); err != nil {
						logger.Warn("sending reply failed", "id", iq.ID, "error", err)
					}
				}
			}()
		})
	}()

	logger.Info("gateway running",
		"domain", cfg.Domain, "server", cfg.Server, "version", version.Number)

	if *interactiveFlag {
		go runInteractive(ctx, cancel, svc, builder, conn)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		cancel()
		<-serveErr
	case err := <-serveErr:
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		<-serveErr
	}
}

// loadConfig merges the config file, defaults and flags. Flags that were set
// on the command line win.
func loadConfig() (Config, error) {
	cfg := Config{
		Server:       *serverFlag,
		LogLevel:     *logLevelFlag,
		QueryTimeout: *timeoutFlag,
	}

	if *configFlag != "" {
		data, err := os.ReadFile(*configFlag)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
		if cfg.Timeout != "" {
			d, err := time.ParseDuration(cfg.Timeout)
			if err != nil {
				return Config{}, fmt.Errorf("parsing timeout in config file: %w", err)
			}
			cfg.QueryTimeout = d
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "domain":
			cfg.Domain = *domainFlag
		case "secret":
			cfg.Secret = *secretFlag
		case "server":
			cfg.Server = *serverFlag
		case "log-level":
			cfg.LogLevel = *logLevelFlag
		case "event-log":
			cfg.EventLog = *eventLogFlag
		case "mdns":
			cfg.MDNS = *mdnsFlag
		case "concat-identities":
			cfg.ConcatIdentities = *concatFlag
		case "timeout":
			cfg.QueryTimeout = *timeoutFlag
		}
	})
	return cfg, nil
}

func setupLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// setupEventLog opens the CBOR protocol event log when configured. The
// returned close function is a no-op otherwise.
func setupEventLog(path string) (eventlog.Logger, func(), error) {
	if path == "" {
		return eventlog.NoopLogger{}, func() {}, nil
	}
	fileLogger, err := eventlog.NewFileLogger(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating event log: %w", err)
	}
	return fileLogger, func() { _ = fileLogger.Close() }, nil
}
