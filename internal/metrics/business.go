package metrics

// IncrementFormCreated increments form creation counter
func (m *Metrics) IncrementFormCreated() {
	m.safeExecute("IncrementFormCreated", func() {
		m.FormCreatedTotal.Inc()
	})
}

// IncrementSubmissionCreated increments submission creation counter
func (m *Metrics) IncrementSubmissionCreated() {
	m.safeExecute("IncrementSubmissionCreated", func() {
		m.SubmissionCreatedTotal.Inc()
	})
}

// IncrementExportGenerated increments the export counter for the given kind
// ("flat" or "pivot").
func (m *Metrics) IncrementExportGenerated(kind string) {
	m.safeExecute("IncrementExportGenerated", func() {
		m.ExportGeneratedTotal.WithLabelValues(kind).Inc()
	})
}

// SetBusinessesTotal sets total businesses gauge
func (m *Metrics) SetBusinessesTotal(count int64) {
	m.safeExecute("SetBusinessesTotal", func() {
		m.BusinessesTotal.Set(float64(count))
	})
}

// SetFormsTotal sets total forms gauge
func (m *Metrics) SetFormsTotal(count int64) {
	m.safeExecute("SetFormsTotal", func() {
		m.FormsTotal.Set(float64(count))
	})
}

// SetSubmissionsTotal sets total submissions gauge
func (m *Metrics) SetSubmissionsTotal(count int64) {
	m.safeExecute("SetSubmissionsTotal", func() {
		m.SubmissionsTotal.Set(float64(count))
	})
}
