// Package metrics exposes a transfer Session's counters as Prometheus
// gauges, grounded on the sockstats exporter's Describe/Collect shape: a
// small Collector that pulls a fresh snapshot on every scrape rather than
// pushing updates as they happen.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alxayo/go-udpxfer/internal/transfer/stats"
)

// Collector adapts a stats.Counters snapshot function into a
// prometheus.Collector. It holds no state of its own beyond the supplier
// closures — Collect is called concurrently by the Prometheus registry and
// must not race with anything that mutates the supplied snapshot.
type Collector struct {
	snapshot func() stats.Snapshot
	planned  func() int
	rttMs    func() float64

	sent     *prometheus.Desc
	acked    *prometheus.Desc
	resent   *prometheus.Desc
	timeouts *prometheus.Desc
	lossRate *prometheus.Desc
	rtt      *prometheus.Desc
	plannedD *prometheus.Desc
}

// New creates a Collector. snapshot and planned are called once per
// scrape; rtt may be nil if the caller has no RTT estimate to export yet.
func New(snapshot func() stats.Snapshot, planned func() int, rtt func() float64) *Collector {
	return &Collector{
		snapshot: snapshot,
		planned:  planned,
		rttMs:    rtt,
		sent:     prometheus.NewDesc("udpxfer_chunks_sent_total", "Chunks sent in the initial pass; retransmits are counted in udpxfer_chunks_resent_total", nil, nil),
		acked:    prometheus.NewDesc("udpxfer_chunks_acked_total", "Chunks acknowledged by the client", nil, nil),
		resent:   prometheus.NewDesc("udpxfer_chunks_resent_total", "Chunks retransmitted after timeout", nil, nil),
		timeouts: prometheus.NewDesc("udpxfer_chunk_timeouts_total", "Timer Table expiries observed by the scanner", nil, nil),
		lossRate: prometheus.NewDesc("udpxfer_loss_ratio", "timeouts / (sent + resent)", nil, nil),
		rtt:      prometheus.NewDesc("udpxfer_rtt_milliseconds", "Current RTT Controller estimate", nil, nil),
		plannedD: prometheus.NewDesc("udpxfer_chunks_planned", "Planned chunk count from the partition plan", nil, nil),
	}
}

func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.sent
	descs <- c.acked
	descs <- c.resent
	descs <- c.timeouts
	descs <- c.lossRate
	descs <- c.plannedD
	if c.rttMs != nil {
		descs <- c.rtt
	}
}

func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	snap := c.snapshot()
	metrics <- prometheus.MustNewConstMetric(c.sent, prometheus.CounterValue, float64(snap.Sent))
	metrics <- prometheus.MustNewConstMetric(c.acked, prometheus.CounterValue, float64(snap.Acked))
	metrics <- prometheus.MustNewConstMetric(c.resent, prometheus.CounterValue, float64(snap.Resent))
	metrics <- prometheus.MustNewConstMetric(c.timeouts, prometheus.CounterValue, float64(snap.Timeouts))
	metrics <- prometheus.MustNewConstMetric(c.lossRate, prometheus.GaugeValue, snap.LossRatio())
	if c.planned != nil {
		metrics <- prometheus.MustNewConstMetric(c.plannedD, prometheus.GaugeValue, float64(c.planned()))
	}
	if c.rttMs != nil {
		metrics <- prometheus.MustNewConstMetric(c.rtt, prometheus.GaugeValue, c.rttMs())
	}
}
