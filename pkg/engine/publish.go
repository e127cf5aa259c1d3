package engine

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gnana997/twgen/pkg/util"
)

// Publisher writes results to their destination with last-write-wins
// semantics: a result is discarded when a newer build has already been
// published or has since been started.
//
// **Thread Safety:** Publish is safe for concurrent use.
type Publisher struct {
	path   string
	out    io.Writer
	latest func() uint64
	logger *slog.Logger

	mu        sync.Mutex
	published uint64
	last      []byte
	stats     PublisherStats
}

// PublisherStats counts publish outcomes.
type PublisherStats struct {
	Published uint64
	Writes    int
	Unchanged int
	Discarded int
}

// NewPublisher creates a publisher writing to path. latest reports the
// newest started build; nil disables the stale-start check.
func NewPublisher(path string, latest func() uint64, logger *slog.Logger) *Publisher {
	return &Publisher{path: path, latest: latest, logger: util.OrDefault(logger)}
}

// NewWriterPublisher publishes to w instead of a file. Every accepted
// result is written, changed or not.
func NewWriterPublisher(w io.Writer, latest func() uint64, logger *slog.Logger) *Publisher {
	return &Publisher{out: w, latest: latest, logger: util.OrDefault(logger)}
}

// Publish writes r unless it is stale. It reports whether r was accepted.
func (p *Publisher) Publish(r *Result) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r.Seq <= p.published || (p.latest != nil && r.Seq < p.latest()) {
		p.stats.Discarded++
		p.logger.Debug("stale build discarded", "seq", r.Seq, "published", p.published)
		return false, nil
	}

	data := []byte(r.CSS)
	if p.out != nil {
		if _, err := p.out.Write(data); err != nil {
			return false, fmt.Errorf("write stylesheet: %w", err)
		}
		p.stats.Writes++
	} else if p.last != nil && bytes.Equal(p.last, data) {
		p.stats.Unchanged++
	} else {
		if err := writeAtomic(p.path, data); err != nil {
			return false, err
		}
		p.stats.Writes++
	}

	p.published = r.Seq
	p.last = data
	p.stats.Published = r.Seq
	p.logger.Info("stylesheet published", "seq", r.Seq, "output", p.Destination(), "bytes", len(data))
	return true, nil
}

// Destination names where results go.
func (p *Publisher) Destination() string {
	if p.out != nil {
		return "stdout"
	}
	return p.path
}

// Stats returns a snapshot of publish counters.
func (p *Publisher) Stats() PublisherStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// writeAtomic replaces path with data via a temp file in the same directory,
// so readers never observe a partial stylesheet.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
