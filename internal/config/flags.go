package config

import (
	"flag"
	"fmt"
	"io"
)

// Options содержит разобранные флаги командной строки
type Options struct {
	ConfigPath  string
	ShowVersion bool
	NoConsole   bool
}

// ParseFlags разбирает args в cfg. Если задан -config, сначала загружается
// файл, а явно указанные флаги переопределяют его значения.
func ParseFlags(name string, args []string, output io.Writer) (Config, Options, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	var opts Options
	def := Default()

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to TOML config file")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.NoConsole, "no-console", false, "Do not read edits from stdin")

	servicePort := fs.Int("port", def.ServicePort, "TCP service port")
	discoveryPort := fs.Int("discovery-port", def.DiscoveryPort, "UDP discovery port")
	mdns := fs.Bool("mdns", def.MDNS, "Also discover peers over multicast DNS")
	peersFile := fs.String("peers", def.PeersFile, "Path to static peers file")
	eventLog := fs.String("event-log", def.EventLog, "Path to append-only event log (empty disables)")
	logLevel := fs.String("log-level", def.LogLevel, "Log level: debug, info, warn, error")
	backend := fs.String("storage", def.Storage.Backend, "Backup backend: file, bolt, sqlite")
	storagePath := fs.String("storage-path", def.Storage.Path, "Backup storage location")
	statusAddr := fs.String("status-addr", def.Status.Addr, "Status HTTP address (empty disables)")

	if err := fs.Parse(args); err != nil {
		return Config{}, Options{}, err
	}

	cfg := def
	if opts.ConfigPath != "" {
		loaded, err := Load(opts.ConfigPath)
		if err != nil {
			return Config{}, Options{}, err
		}
		cfg = loaded
	}

	// Переопределяем только явно заданные флаги
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.ServicePort = *servicePort
		case "discovery-port":
			cfg.DiscoveryPort = *discoveryPort
		case "mdns":
			cfg.MDNS = *mdns
		case "peers":
			cfg.PeersFile = *peersFile
		case "event-log":
			cfg.EventLog = *eventLog
		case "log-level":
			cfg.LogLevel = *logLevel
		case "storage":
			cfg.Storage.Backend = *backend
		case "storage-path":
			cfg.Storage.Path = *storagePath
		case "status-addr":
			cfg.Status.Addr = *statusAddr
		}
	})

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, Options{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, opts, nil
}
