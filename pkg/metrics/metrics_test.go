package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func findFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with defaults", func() {
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it uses the service namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "neuroshop")
				So(manager.subsystem, ShouldEqual, "aggregator")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.searches.WithLabelValues(ResultMiss).Inc()

			Convey("Then collectors carry the custom names and labels", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				f := findFamily(families, "test_unit_searches_total")
				So(f, ShouldNotBeNil)
				So(labelValue(f.GetMetric()[0], "env"), ShouldEqual, "test")
				So(labelValue(f.GetMetric()[0], "result"), ShouldEqual, ResultMiss)
			})
		})

		Convey("When passing empty option values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "neuroshop")
				So(manager.subsystem, ShouldEqual, "aggregator")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
				So(manager.constLabels, ShouldBeNil)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording search pipeline metrics", func() {
			So(func() {
				RecordSearch(ResultHit)
				RecordSearch(ResultMiss)
				RecordSearch(ResultRejected)
				RecordSearchLatency(120)
				RecordResultSize(7)
				RecordPartialResult()
				RecordOffersRejected(2)
				RecordOffersDeduplicated(1)
				RecordClassifierFallback(StageCategory)
				RecordEnrichFallback()
			}, ShouldNotPanic)
		})

		Convey("When recording provider metrics", func() {
			RecordProviderOutcome("amazon", "success")
			RecordProviderLatency("amazon", 35)
			RecordProviderOffers("amazon", 4)

			Convey("Then they are exposed on the custom registry", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				f := findFamily(families, "neuroshop_aggregator_provider_outcomes_total")
				So(f, ShouldNotBeNil)
				var found bool
				for _, m := range f.GetMetric() {
					if labelValue(m, "provider") == "amazon" && labelValue(m, "outcome") == "success" {
						found = m.GetCounter().GetValue() >= 1
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When recording cache, queue and worker metrics", func() {
			So(func() {
				UpdateCacheEntries("search", 3)
				RecordCacheEviction("search")
				UpdateQueueSize(5)
				RecordQueueEnqueue()
				RecordQueueEnqueueError()
				RecordWarmupProcessed("ok")
				UpdateWorkerCount(2)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP and system metrics", func() {
			So(func() {
				RecordHTTPRequest("/api/search", "POST", "200")
				RecordHTTPRequestDuration("/api/search", "POST", "200", 12.5)
				RecordErrorByEndpoint("/api/search", "POST", "bad_request")
				RecordErrorLatency("http", "bad_request", 1.5)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
				UpdateCacheEntries("search", 3)
			}, ShouldNotPanic)

			Convey("Then the cache gauge holds the last value", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				f := findFamily(families, "neuroshop_aggregator_cache_entries")
				So(f, ShouldNotBeNil)
				So(f.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 3)
			})
		})
	})
}
