package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a store listen address in format [host]:[port]
//	-peer base URL of the primary store as seen from the edge
//	-d database DSN
//	-recordings-dir directory with recording audio files
//	-inbox-dir store-side upload spool directory
//	-checksums-file edge-side in-flight checksum snapshot path
//	-catalog-db edge-side SQLite catalog path
//	-debounce sync trigger debounce window (e.g., "500ms")
//	-fallback-interval fallback timer interval (e.g., "5m")
//	-poll-interval store poll interval (e.g., "10s")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var listenAddress NetAddress
	var peerURL string
	var databaseDSN string
	var recordingsDir string
	var inboxDir string
	var checksumsPath string
	var catalogPath string
	var debounceWindow time.Duration
	var fallbackInterval time.Duration
	var pollInterval time.Duration
	var requestTimeout time.Duration
	var jsonConfigPath string

	flag.Var(&listenAddress, "a", "Net address host:port")
	flag.StringVar(&peerURL, "peer", "", "Primary store base URL")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&recordingsDir, "recordings-dir", "", "Recordings directory")
	flag.StringVar(&inboxDir, "inbox-dir", "", "Upload spool directory")
	flag.StringVar(&checksumsPath, "checksums-file", "", "In-flight checksum snapshot path")
	flag.StringVar(&catalogPath, "catalog-db", "", "SQLite catalog path")
	flag.DurationVar(&debounceWindow, "debounce", 0, "Sync trigger debounce window (e.g., 500ms)")
	flag.DurationVar(&fallbackInterval, "fallback-interval", 0, "Fallback timer interval (e.g., 5m)")
	flag.DurationVar(&pollInterval, "poll-interval", 0, "Store poll interval (e.g., 10s)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Sync: Sync{
			DebounceWindow:   debounceWindow,
			FallbackInterval: fallbackInterval,
		},
		Transport: Transport{
			PeerURL:        peerURL,
			HTTPAddress:    listenAddress.String(),
			RequestTimeout: requestTimeout,
			PollInterval:   pollInterval,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Files: Files{
				RecordingsDir: recordingsDir,
				InboxDir:      inboxDir,
				ChecksumsPath: checksumsPath,
				CatalogPath:   catalogPath,
			},
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range (1..65535), checks IP correctness unless host
// is "localhost" or empty (bind all interfaces), and returns an error if the
// format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be between 1 and 65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
