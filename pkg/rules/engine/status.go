package engine

// AggregateStatus maps a finding set to the run's traffic-light status:
// RED if any RED finding exists, else YELLOW if any YELLOW finding exists,
// else GREEN. Pure and total, including over the empty set.
func AggregateStatus(findings []Finding) Status {
	status := StatusGreen
	for _, f := range findings {
		switch f.Severity {
		case SeverityRed:
			return StatusRed
		case SeverityYellow:
			status = StatusYellow
		}
	}
	return status
}
