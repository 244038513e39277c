// Package metrics exposes the counters of an inventory run as Prometheus
// metrics, written to a node exporter textfile.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wetc/inventory"
)

const namespace = "invctl"

// Collector holds the metrics of a single run.
type Collector struct {
	registry *prometheus.Registry

	records    prometheus.Counter
	classified prometheus.Counter
	dropped    prometheus.Counter
	containers prometheus.Gauge
	offices    prometheus.Gauge
	orders     *prometheus.CounterVec
	value      *prometheus.GaugeVec
	lastRun    prometheus.Gauge
}

// New returns a Collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_records_total",
			Help:      "Asset records read.",
		}),
		classified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_classified_total",
			Help:      "Items placed into a category.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_dropped_total",
			Help:      "Items accepted by no location or category.",
		}),
		containers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "containers",
			Help:      "Containers found in the assets.",
		}),
		offices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "offices",
			Help:      "Offices found in the assets.",
		}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_total",
			Help:      "Market orders downloaded, by market and outcome.",
		}, []string{"market", "outcome"}),
		value: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_value_isk",
			Help:      "Value of the inventory, by location and category.",
		}, []string{"location", "category"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Time of the last successful run.",
		}),
	}
	c.registry.MustRegister(c.records, c.classified, c.dropped, c.containers, c.offices, c.orders, c.value, c.lastRun)
	return c
}

// Registry returns the registry holding the metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveClassification records the outcome of a classification.
func (c *Collector) ObserveClassification(s inventory.Stats) {
	c.records.Add(float64(s.Records))
	c.classified.Add(float64(s.Classified))
	c.dropped.Add(float64(s.Dropped))
	c.containers.Set(float64(s.Containers))
	c.offices.Set(float64(s.Offices))
}

// ObserveOrders records the orders stored for a market.
func (c *Collector) ObserveOrders(market string, imported, skipped int) {
	c.orders.WithLabelValues(market, "imported").Add(float64(imported))
	c.orders.WithLabelValues(market, "skipped").Add(float64(skipped))
}

// ObserveReport records the value of every category.
func (c *Collector) ObserveReport(r *inventory.Report) {
	for _, cr := range r.Categories() {
		c.value.WithLabelValues(cr.Location, cr.Name).Set(cr.Total.Float64())
	}
}

// Done marks the run as successful.
func (c *Collector) Done() { c.lastRun.SetToCurrentTime() }

// Write writes the metrics to path in the text exposition format.
// The file is replaced atomically.
func (c *Collector) Write(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
