package circuit

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/edp1096/toy-photon/internal/logging"
	"github.com/edp1096/toy-photon/pkg/netlist"
	"github.com/edp1096/toy-photon/pkg/util"
)

const tracerName = "github.com/edp1096/toy-photon/pkg/circuit"

// Config tunes a Connector. Zero values fall back to DefaultConfig.
type Config struct {
	Workers        int   // goroutines per fold, splitting the frequency axis
	Order          []int // net ids to resolve first; the rest follow in increasing order
	Logger         *slog.Logger
	Metrics        *Metrics
	TracerProvider trace.TracerProvider
}

func DefaultConfig() Config {
	return Config{
		Workers:        1,
		Logger:         logging.Discard(),
		TracerProvider: otel.GetTracerProvider(),
	}
}

// Connector cascades a netlist into its composite scattering matrices.
// A Connector runs one cascade at a time.
type Connector struct {
	netlist *netlist.Netlist
	freqs   []float64
	config  Config
	log     *slog.Logger
	tracer  trace.Tracer

	peakPorts int
}

func New(nl *netlist.Netlist, freqs []float64, cfg Config) *Connector {
	def := DefaultConfig()
	if cfg.Workers < 1 {
		cfg.Workers = def.Workers
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = def.TracerProvider
	}

	return &Connector{
		netlist: nl,
		freqs:   slices.Clone(freqs),
		config:  cfg,
		log:     cfg.Logger,
		tracer:  cfg.TracerProvider.Tracer(tracerName),
	}
}

// Connect resolves every internal net, one fold per net, and returns the
// terminal entries. Any failure aborts the cascade with no partial result.
func (c *Connector) Connect(ctx context.Context) (res *Result, err error) {
	ctx, span := c.tracer.Start(ctx, "circuit.Connect")
	start := time.Now()
	c.peakPorts = 0
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.config.Metrics.observeCascade(err, 0, 0)
		} else if res != nil {
			span.SetAttributes(attribute.Int("circuit.terminal_entries", len(res.Circuits)))
			c.config.Metrics.observeCascade(nil, len(res.Circuits), c.peakPorts)
		}
		span.End()
	}()

	if c.netlist == nil {
		return nil, netlist.ErrEmptyNetlist
	}
	if err := c.netlist.Validate(); err != nil {
		return nil, err
	}

	entries, err := c.entries()
	if err != nil {
		return nil, err
	}

	count, err := c.netlist.NetCount()
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("circuit.components", len(entries)),
		attribute.Int("circuit.nets", count),
		attribute.Int("circuit.samples", len(c.freqs)),
	)

	order, err := c.order(count)
	if err != nil {
		return nil, err
	}
	for _, net := range order {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("cascade stopped before net %d: %w", net, err)
		}
		if entries, err = c.resolve(ctx, entries, net); err != nil {
			return nil, err
		}
	}

	for _, e := range entries {
		if !e.External() {
			return nil, fmt.Errorf("entry %s still has internal nets after cascade", e)
		}
	}

	c.log.Info("cascade complete",
		"components", c.netlist.Len(),
		"nets", count,
		"entries", len(entries),
		"duration", time.Since(start))

	return &Result{
		Freq:           slices.Clone(entries[0].Freq()),
		Circuits:       entries,
		EdgeComponents: c.netlist.ExternalComponents(),
	}, nil
}

// entries builds one working entry per component and checks that every model
// produced the same frequency grid.
func (c *Connector) entries() ([]*Entry, error) {
	comps := c.netlist.Components()
	entries := make([]*Entry, 0, len(comps))
	for _, comp := range comps {
		e, err := newEntry(comp, c.freqs)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 && !util.SameGrid(e.Freq(), entries[0].Freq()) {
			return nil, &FrequencyError{Component: comp.Name, Want: entries[0].S.Len(), Got: e.S.Len()}
		}
		c.peakPorts = max(c.peakPorts, e.Ports())
		entries = append(entries, e)
	}
	return entries, nil
}

func (c *Connector) order(count int) ([]int, error) {
	order := make([]int, 0, count+len(c.config.Order))
	seen := make(map[int]bool, count)
	for _, net := range c.config.Order {
		if net < 0 {
			return nil, fmt.Errorf("processing order names external net %d", net)
		}
		if !seen[net] {
			seen[net] = true
			order = append(order, net)
		}
	}
	for net := 0; net < count; net++ {
		if !seen[net] {
			order = append(order, net)
		}
	}
	return order, nil
}

type hit struct {
	entry *Entry
	port  int
}

// resolve finds the two ports wired to net and folds them, returning the new
// working set. Consumed entries are dropped and the fold result appended.
func (c *Connector) resolve(ctx context.Context, entries []*Entry, net int) ([]*Entry, error) {
	var hits []hit
	for _, e := range entries {
		for p, n := range e.Nets {
			if n == net {
				hits = append(hits, hit{entry: e, port: p})
			}
		}
	}
	if len(hits) == 0 {
		return entries, nil
	}
	if err := netlist.CheckFanOut(net, len(hits)); err != nil {
		return nil, err
	}

	a, b := hits[0], hits[1]
	var next *Entry
	var err error
	if a.entry == b.entry {
		next, err = c.fold(ctx, net, "inner", func() (*Entry, error) {
			s, err := innerConnect(a.entry.S, a.port, b.port, c.config.Workers)
			if err != nil {
				return nil, err
			}
			return &Entry{Name: a.entry.Name, Nets: without(a.entry.Nets, a.port, b.port), S: s}, nil
		})
	} else {
		next, err = c.fold(ctx, net, "cross", func() (*Entry, error) {
			if !util.SameGrid(a.entry.Freq(), b.entry.Freq()) {
				return nil, &FrequencyError{Component: b.entry.Name, Want: a.entry.S.Len(), Got: b.entry.S.Len()}
			}
			s, err := connect(a.entry.S, a.port, b.entry.S, b.port, c.config.Workers)
			if err != nil {
				return nil, err
			}
			nets := slices.Concat(without1(a.entry.Nets, a.port), without1(b.entry.Nets, b.port))
			return &Entry{Name: a.entry.Name + "+" + b.entry.Name, Nets: nets, S: s}, nil
		})
	}
	if err != nil {
		return nil, err
	}

	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e != a.entry && e != b.entry {
			out = append(out, e)
		}
	}
	return append(out, next), nil
}

func (c *Connector) fold(ctx context.Context, net int, kind string, run func() (*Entry, error)) (*Entry, error) {
	_, span := c.tracer.Start(ctx, "circuit.fold", trace.WithAttributes(
		attribute.Int("circuit.net", net),
		attribute.String("circuit.fold_kind", kind),
	))
	defer span.End()

	start := time.Now()
	e, err := run()
	if err != nil {
		err = fmt.Errorf("net %d: %w", net, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Int("circuit.ports", e.Ports()))
	c.config.Metrics.observeFold(kind, elapsed)
	c.peakPorts = max(c.peakPorts, e.Ports())
	c.log.Debug("fold", "kind", kind, "net", net, "ports", e.Ports(), "elapsed", elapsed)
	return e, nil
}

func without1(nets []int, k int) []int {
	return slices.Delete(slices.Clone(nets), k, k+1)
}
