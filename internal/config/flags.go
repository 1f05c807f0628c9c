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
//	-a control API address in format [host]:[port]
//	-d local store DSN
//	-f downloaded files directory
//	-c/-config JSON or YAML file path with configs
//	-site-id, -site-url, -site-token, -site-user-id startup site
//	-request-timeout web-service request timeout (e.g., "30s", "1m")
//	-wifi-only sync only on unmetered networks
//	-min-sync-interval minimum interval between automatic syncs of a resource
//	-prefetch-concurrency concurrent module downloads
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var filesDir string
	var configPath string
	var siteID, siteURL, siteToken string
	var siteUserID int64
	var requestTimeout time.Duration
	var wifiOnly bool
	var minSyncInterval time.Duration
	var prefetchConcurrency int

	flag.Var(&serverAddress, "a", "Control API net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Local store DSN")
	flag.StringVar(&filesDir, "f", "", "Downloaded files directory")
	flag.StringVar(&configPath, "c", "", "JSON or YAML config file path")
	flag.StringVar(&configPath, "config", "", "JSON or YAML config file path (alias)")
	flag.StringVar(&siteID, "site-id", "", "Startup site id")
	flag.StringVar(&siteURL, "site-url", "", "Startup site URL")
	flag.StringVar(&siteToken, "site-token", "", "Startup site web-service token")
	flag.Int64Var(&siteUserID, "site-user-id", 0, "Startup site user id")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Web-service request timeout (e.g., 30s, 1m)")
	flag.BoolVar(&wifiOnly, "wifi-only", false, "Sync only on unmetered networks")
	flag.DurationVar(&minSyncInterval, "min-sync-interval", 0, "Minimum interval between automatic syncs")
	flag.IntVar(&prefetchConcurrency, "prefetch-concurrency", 0, "Concurrent module downloads")

	flag.Parse()

	return &StructuredConfig{
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Files: Files{Dir: filesDir},
		},
		Site: Site{
			ID:     siteID,
			URL:    siteURL,
			Token:  siteToken,
			UserID: siteUserID,
		},
		Server: Server{
			HTTPAddress: serverAddress.String(),
		},
		Adapter: Adapter{
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			WifiOnly:            wifiOnly,
			MinSyncInterval:     minSyncInterval,
			PrefetchConcurrency: prefetchConcurrency,
		},
		ConfigFilePath: configPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
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

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
