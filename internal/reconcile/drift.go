package reconcile

import (
	"log/slog"

	"masksync/domain"
)

// DriftDetector diffs the expected attachment set against the actual one.
type DriftDetector struct {
	logger *slog.Logger
}

// NewDriftDetector creates a detector.
func NewDriftDetector(logger *slog.Logger) *DriftDetector {
	return &DriftDetector{logger: logger}
}

// Detect indexes both lists by attachment key and classifies every expected
// key as present, missing, or mismatched, and every unexpected actual key
// as extra. silent suppresses the per-finding logs; subset previews pass it
// because attachments of out-of-scope principals would otherwise show up as
// false missing/extra findings and alarm operators.
func (d *DriftDetector) Detect(expected, actual []domain.PolicyAttachment, silent bool) domain.Drift {
	actualByKey := indexByKey(actual)
	expectedByKey := indexByKey(expected)

	var drift domain.Drift
	for _, e := range expected {
		a, present := actualByKey[e.Key()]
		if !present {
			drift.Missing = append(drift.Missing, e)
			if !silent {
				d.logger.Info("attachment missing",
					"grantee", e.Grantee,
					"column", e.Column.String(),
					"policy", e.PolicyName,
				)
			}
			continue
		}
		if !e.Matches(a) {
			drift.Mismatched = append(drift.Mismatched, domain.Mismatch{Expected: e, Actual: a})
			if !silent {
				d.logger.Info("attachment mismatched",
					"grantee", e.Grantee,
					"column", e.Column.String(),
					"expected_policy", e.PolicyName,
					"expected_priority", e.Priority,
					"actual_policy", a.PolicyName,
					"actual_priority", a.Priority,
				)
			}
		}
	}

	for _, a := range actual {
		if _, present := expectedByKey[a.Key()]; !present {
			drift.Extra = append(drift.Extra, a)
			if !silent {
				d.logger.Info("attachment not expected",
					"grantee", a.Grantee,
					"column", a.Column.String(),
					"policy", a.PolicyName,
				)
			}
		}
	}
	return drift
}

func indexByKey(attachments []domain.PolicyAttachment) map[string]domain.PolicyAttachment {
	byKey := make(map[string]domain.PolicyAttachment, len(attachments))
	for _, a := range attachments {
		byKey[a.Key()] = a
	}
	return byKey
}
