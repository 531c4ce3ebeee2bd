// Package seeder generates synthetic access-log files for demos and testing.
package seeder

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

const timestampLayout = "2006-01-02 15:04:05"

// Config controls the shape of the generated dataset.
type Config struct {
	// Count is the number of log lines to emit.
	Count int
	// Window spreads timestamps backwards from now over this duration.
	Window time.Duration
	// MalformedRate is the fraction of lines emitted with a missing field.
	MalformedRate float64
	// Seed makes the output reproducible when non-zero.
	Seed int64
}

type Generator struct {
	cfg Config
	rng *rand.Rand

	ips    []string
	pages  []string
	agents []string
}

var agentPool = []string{
	"Chrome/120.0",
	"Firefox/121.0",
	"Safari/17.2",
	"Edge/120.0",
	"curl/8.5.0",
	"Googlebot/2.1",
}

var pagePool = []string{
	"/index.html",
	"/about.html",
	"/products.html",
	"/contact.html",
	"/api/v1/orders",
	"/api/v1/users",
	"/login",
	"/checkout",
}

// Weighted status pool: mostly successes with a tail of failures.
var statusPool = []int{
	200, 200, 200, 200, 200, 200,
	301, 302,
	404, 404,
	500,
	403,
}

func New(cfg Config) *Generator {
	if cfg.Count <= 0 {
		cfg.Count = 1000
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	faker := gofakeit.New(seed)

	g := &Generator{
		cfg:    cfg,
		rng:    rng,
		pages:  pagePool,
		agents: agentPool,
	}

	// Draw from a small IP pool so repeat visitors and failure
	// clusters show up in the aggregates.
	poolSize := cfg.Count/20 + 5
	if poolSize > 200 {
		poolSize = 200
	}
	g.ips = make([]string, poolSize)
	for i := range g.ips {
		g.ips[i] = faker.IPv4Address()
	}

	return g
}

// WriteTo emits cfg.Count log lines to w.
func (g *Generator) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64

	for i := 0; i < g.cfg.Count; i++ {
		line := g.line(i)
		n, err := fmt.Fprintln(bw, line)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write log line: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("flush log output: %w", err)
	}
	return written, nil
}

func (g *Generator) line(index int) string {
	ip := g.ips[g.rng.Intn(len(g.ips))]
	ts := g.eventTime(index).Format(timestampLayout)
	page := g.pages[g.rng.Intn(len(g.pages))]
	agent := g.agents[g.rng.Intn(len(g.agents))]
	status := statusPool[g.rng.Intn(len(statusPool))]

	if g.cfg.MalformedRate > 0 && g.rng.Float64() < g.cfg.MalformedRate {
		return g.malformedLine(ip, ts, page, agent)
	}

	return fmt.Sprintf("%s,%s,%s,%s,%d", ip, ts, page, agent, status)
}

func (g *Generator) malformedLine(ip, ts, page, agent string) string {
	switch g.rng.Intn(3) {
	case 0:
		// Missing status field.
		return fmt.Sprintf("%s,%s,%s,%s", ip, ts, page, agent)
	case 1:
		// Non-numeric status.
		return fmt.Sprintf("%s,%s,%s,%s,oops", ip, ts, page, agent)
	default:
		// Empty IP field.
		return fmt.Sprintf(",%s,%s,%s,200", ts, page, agent)
	}
}

// eventTime spaces events evenly across the window with random jitter,
// placed going backwards from now.
func (g *Generator) eventTime(index int) time.Time {
	now := time.Now()
	if g.cfg.Window <= 0 {
		return now
	}

	baseInterval := float64(g.cfg.Window) / float64(g.cfg.Count)
	baseOffset := time.Duration(float64(index) * baseInterval)

	jitterRange := baseInterval * 0.4
	jitter := time.Duration((g.rng.Float64()*2.0 - 1.0) * jitterRange)

	totalOffset := baseOffset + jitter
	if totalOffset < 0 {
		totalOffset = 0
	}
	if totalOffset > g.cfg.Window {
		totalOffset = g.cfg.Window
	}

	return now.Add(-(g.cfg.Window - totalOffset))
}
