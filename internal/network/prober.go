package network

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/go-course-sync/internal/config"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/utils"
)

// Prober derives the connectivity state from whether sites answer.
type Prober struct {
	client   *utils.HTTPClient
	monitor  *Monitor
	interval time.Duration
	metered  bool
	targets  func() []string
}

// NewProber returns a prober updating monitor every syncCfg.ProbeInterval.
// targets returns the URLs to probe, usually the URLs of the logged in sites.
func NewProber(monitor *Monitor, syncCfg config.ClientSync, adapterCfg config.ClientAdapter, targets func() []string) *Prober {
	client := utils.NewHTTPClient(adapterCfg.RequestTimeout, 0)

	interval := syncCfg.ProbeInterval
	if interval <= 0 {
		interval = config.DefaultProbeInterval
	}

	return &Prober{
		client:   client,
		monitor:  monitor,
		interval: interval,
		metered:  syncCfg.Metered,
		targets:  targets,
	}
}

// Reachable reports whether url answers at all. Any HTTP status counts as an
// answer.
func (p *Prober) Reachable(ctx context.Context, url string) bool {
	resp, err := p.client.R().SetContext(ctx).Head(url)
	if err != nil {
		return false
	}
	return resp.StatusCode() > 0 && resp.StatusCode() != http.StatusBadGateway
}

// ProbeOnce probes the targets and updates the monitor. With no targets the
// state is left alone.
func (p *Prober) ProbeOnce(ctx context.Context) State {
	targets := p.targets()
	if len(targets) == 0 {
		return p.monitor.State()
	}

	online := false
	for _, url := range targets {
		if p.Reachable(ctx, url) {
			online = true
			break
		}
	}

	s := State{Online: online, Wifi: online && !p.metered, Metered: online && p.metered}
	p.monitor.Set(ctx, s)
	return s
}

// Run probes until ctx is done.
func (p *Prober) Run(ctx context.Context) {
	log := logger.FromContext(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.ProbeOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("func", "Prober.Run").Msg("connectivity prober stopped")
			return
		case <-ticker.C:
			p.ProbeOnce(ctx)
		}
	}
}
