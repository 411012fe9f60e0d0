// Package counters tracks the byte counters reported in announce requests.
package counters

import (
	"github.com/rcrowley/go-metrics"
)

// Counters holds the uploaded/downloaded/left values for one swarm.
// The announce engine reads a snapshot at request-build time; the owner of
// the transfer updates them as data moves.
type Counters struct {
	registry   metrics.Registry
	uploaded   metrics.Counter
	downloaded metrics.Counter
	left       metrics.Gauge
}

func New(uploaded, downloaded, left int64) *Counters {
	r := metrics.NewRegistry()
	c := &Counters{
		registry:   r,
		uploaded:   metrics.NewRegisteredCounter("bytes_uploaded", r),
		downloaded: metrics.NewRegisteredCounter("bytes_downloaded", r),
		left:       metrics.NewRegisteredGauge("bytes_left", r),
	}
	c.uploaded.Inc(uploaded)
	c.downloaded.Inc(downloaded)
	c.left.Update(left)
	return c
}

func (c *Counters) IncUploaded(n int64)   { c.uploaded.Inc(n) }
func (c *Counters) IncDownloaded(n int64) { c.downloaded.Inc(n) }
func (c *Counters) SetLeft(n int64)       { c.left.Update(n) }

func (c *Counters) Uploaded() int64   { return c.uploaded.Count() }
func (c *Counters) Downloaded() int64 { return c.downloaded.Count() }
func (c *Counters) Left() int64       { return c.left.Value() }

// Registry exposes the underlying metrics registry so owners can attach
// their own meters or dump values for debugging.
func (c *Counters) Registry() metrics.Registry {
	return c.registry
}
