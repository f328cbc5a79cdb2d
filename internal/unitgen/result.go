package unitgen

// Outcome classifies what happened to one base unit during a run. Skips are
// routine, not exceptional, so they are result values rather than errors.
type Outcome string

const (
	// OutcomeGenerated means the parser unit was written (and, unless
	// activation is skipped, enabled and started).
	OutcomeGenerated Outcome = "generated"

	// OutcomeMalformedID means stripping the prefix and suffix left an
	// empty instance id.
	OutcomeMalformedID Outcome = "malformed-id"

	// OutcomeNoDataFile means glob discovery found no matching data file.
	OutcomeNoDataFile Outcome = "no-data-file"

	// OutcomeAmbiguousDataFile means glob discovery found more than one
	// matching data file.
	OutcomeAmbiguousDataFile Outcome = "ambiguous-data-file"

	// OutcomeWriteFailed means the unit file could not be written.
	OutcomeWriteFailed Outcome = "write-failed"

	// OutcomeActivationFailed means the unit file was written but
	// enable --now returned an error. The file stays on disk.
	OutcomeActivationFailed Outcome = "activation-failed"

	// OutcomeRemoved means Clean stopped, disabled, and deleted the unit.
	OutcomeRemoved Outcome = "removed"

	// OutcomeRemoveFailed means Clean could not delete the unit file.
	OutcomeRemoveFailed Outcome = "remove-failed"
)

// Generated reports whether the outcome left a freshly written unit file on
// disk. Activation failures count: the descriptor exists regardless.
func (o Outcome) Generated() bool {
	return o == OutcomeGenerated || o == OutcomeActivationFailed
}

// InstanceResult records the outcome for one base unit.
type InstanceResult struct {
	// InstanceID is the derived id, empty for OutcomeMalformedID.
	InstanceID string

	// BaseUnit is the base unit filename that was matched.
	BaseUnit string

	// UnitName is the generated unit name, empty when nothing was written.
	UnitName string

	// DataPath is the resolved data file path, empty when resolution failed.
	DataPath string

	// Outcome classifies the result.
	Outcome Outcome

	// Err carries the underlying error for failure outcomes, nil otherwise.
	Err error
}

// Summary aggregates the results of one run.
type Summary struct {
	// Results holds one entry per matched base unit, in scan order.
	Results []InstanceResult

	// Reloaded is true once the final daemon-reload succeeded.
	Reloaded bool
}

// Counts returns the number of generated units, skipped instances, and
// activation failures.
func (s *Summary) Counts() (generated, skipped, activationFailed int) {
	for _, r := range s.Results {
		switch {
		case r.Outcome == OutcomeActivationFailed:
			generated++
			activationFailed++
		case r.Outcome == OutcomeGenerated:
			generated++
		default:
			skipped++
		}
	}
	return generated, skipped, activationFailed
}
