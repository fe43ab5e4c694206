package feedcache

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/iinyiska/dextrend/internal/observability"
)

// Poller runs a refresh task at a fixed interval until stopped.
type Poller struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) error
	metrics  *observability.Metrics
	logger   *log.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// StartPoller launches the refresh loop and returns a handle whose Stop
// cancels it. The first run happens immediately rather than after one
// interval, so caches are warm at startup.
func StartPoller(name string, interval time.Duration, task func(ctx context.Context) error, metrics *observability.Metrics, logger *log.Logger) *Poller {
	if logger == nil {
		logger = log.New(log.Writer(), "[poller] ", log.LstdFlags)
	}
	p := &Poller{
		name:     name,
		interval: interval,
		task:     task,
		metrics:  metrics,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Stop cancels the loop and waits for the current run to finish.
// Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}

func (p *Poller) run() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runOnce()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.runOnce()
		}
	}
}

func (p *Poller) runOnce() {
	if p.metrics != nil {
		p.metrics.PollerRuns.WithLabelValues(p.name).Inc()
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := p.task(ctx); err != nil {
		if p.metrics != nil {
			p.metrics.PollerErrors.WithLabelValues(p.name).Inc()
		}
		p.logger.Printf("%s refresh: %v", p.name, err)
	}
}
