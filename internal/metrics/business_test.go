package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestIncrementFormCreated(t *testing.T) {
	m := getTestMetrics()

	initialValue := getCounterValue(t, m.FormCreatedTotal)

	m.IncrementFormCreated()

	newValue := getCounterValue(t, m.FormCreatedTotal)
	if newValue <= initialValue {
		t.Errorf("Expected counter to increment, got %f -> %f", initialValue, newValue)
	}
}

func TestIncrementSubmissionCreated(t *testing.T) {
	m := getTestMetrics()

	initialValue := getCounterValue(t, m.SubmissionCreatedTotal)

	m.IncrementSubmissionCreated()

	newValue := getCounterValue(t, m.SubmissionCreatedTotal)
	if newValue <= initialValue {
		t.Errorf("Expected counter to increment, got %f -> %f", initialValue, newValue)
	}
}

func TestIncrementExportGenerated(t *testing.T) {
	m := getTestMetrics()

	m.IncrementExportGenerated("flat")
	m.IncrementExportGenerated("pivot")
	m.IncrementExportGenerated("pivot")

	flat := getCounterValue(t, m.ExportGeneratedTotal.WithLabelValues("flat"))
	pivot := getCounterValue(t, m.ExportGeneratedTotal.WithLabelValues("pivot"))

	if flat != 1 {
		t.Errorf("Expected flat export counter to be 1, got %f", flat)
	}
	if pivot != 2 {
		t.Errorf("Expected pivot export counter to be 2, got %f", pivot)
	}
}

func TestSetBusinessesTotal(t *testing.T) {
	m := getTestMetrics()

	tests := []struct {
		name  string
		count int64
	}{
		{"zero businesses", 0},
		{"one business", 1},
		{"multiple businesses", 42},
		{"large number", 1000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.SetBusinessesTotal(tt.count)
			value := getGaugeValue(t, m.BusinessesTotal)
			if value != float64(tt.count) {
				t.Errorf("Expected gauge value %d, got %f", tt.count, value)
			}
		})
	}
}

func TestSetFormsTotal(t *testing.T) {
	m := getTestMetrics()

	tests := []struct {
		name  string
		count int64
	}{
		{"zero forms", 0},
		{"one form", 1},
		{"multiple forms", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.SetFormsTotal(tt.count)
			value := getGaugeValue(t, m.FormsTotal)
			if value != float64(tt.count) {
				t.Errorf("Expected gauge value %d, got %f", tt.count, value)
			}
		})
	}
}

func TestSetSubmissionsTotal(t *testing.T) {
	m := getTestMetrics()

	m.SetSubmissionsTotal(37)
	if getGaugeValue(t, m.SubmissionsTotal) != 37 {
		t.Error("Expected SubmissionsTotal to be 37")
	}

	m.SetSubmissionsTotal(0)
	if getGaugeValue(t, m.SubmissionsTotal) != 0 {
		t.Error("Expected SubmissionsTotal to reset to 0")
	}
}

// Helper function to get counter value
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Failed to write counter metric: %v", err)
	}
	return metric.Counter.GetValue()
}

// Helper function to get gauge value
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("Failed to write gauge metric: %v", err)
	}
	return metric.Gauge.GetValue()
}
