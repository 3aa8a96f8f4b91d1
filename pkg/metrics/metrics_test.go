package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered under the namespace", func() {
				m.evaluations.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "test_unit_evaluations_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("Empty option values keep defaults", func() {
			m := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))
			So(m.namespace, ShouldEqual, "diamond")
			So(m.subsystem, ShouldEqual, "scout")
			So(m.latencyBuckets, ShouldNotBeEmpty)
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Submission counters increase", func() {
			before := testutil.ToFloat64(globalManager.submissionsAccepted)
			RecordSubmissionAccepted()
			So(testutil.ToFloat64(globalManager.submissionsAccepted), ShouldEqual, before+1)

			dupBefore := testutil.ToFloat64(globalManager.submissionsDuplicate)
			RecordSubmissionDuplicate()
			So(testutil.ToFloat64(globalManager.submissionsDuplicate), ShouldEqual, dupBefore+1)

			rejBefore := testutil.ToFloat64(globalManager.submissionsRejected.WithLabelValues("queue_full"))
			RecordSubmissionRejected("queue_full")
			So(testutil.ToFloat64(globalManager.submissionsRejected.WithLabelValues("queue_full")), ShouldEqual, rejBefore+1)
		})

		Convey("Evaluations are counted and defaulted signals labeled", func() {
			before := testutil.ToFloat64(globalManager.evaluations)
			RecordEvaluation(72.5)
			So(testutil.ToFloat64(globalManager.evaluations), ShouldEqual, before+1)

			sigBefore := testutil.ToFloat64(globalManager.defaultedSignals.WithLabelValues("cognitive_load"))
			RecordDefaultedSignal("cognitive_load")
			So(testutil.ToFloat64(globalManager.defaultedSignals.WithLabelValues("cognitive_load")), ShouldEqual, sigBefore+1)

			staleBefore := testutil.ToFloat64(globalManager.staleEvaluations)
			RecordStaleEvaluation()
			So(testutil.ToFloat64(globalManager.staleEvaluations), ShouldEqual, staleBefore+1)
		})

		Convey("Gauges hold the last value", func() {
			UpdateHiddenGems(4)
			So(testutil.ToFloat64(globalManager.hiddenGems), ShouldEqual, 4.0)
			UpdatePitchersTotal(12)
			So(testutil.ToFloat64(globalManager.pitchersTotal), ShouldEqual, 12.0)
			UpdateQueueSize(3)
			So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 3.0)
			UpdateQueueCapacity(100)
			So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 100.0)
			UpdateWorkerActiveCount(8)
			So(testutil.ToFloat64(globalManager.workerActiveCount), ShouldEqual, 8.0)
		})

		Convey("Latency and system recorders do not panic", func() {
			So(func() {
				RecordFatigueLatency(0.4)
				RecordScoringLatency(0.2)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError("closed")
				RecordWorkerProcessingLatency(1.5)
				RecordWorkerError("scoring")
				RecordHTTPRequest("/gems", "GET", "200")
				RecordHTTPRequestDuration("/gems", "GET", "200", 2)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.1)
			}, ShouldNotPanic)
		})

		Convey("The custom registry gathers", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}
