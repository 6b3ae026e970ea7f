package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masksync/domain"
)

func att(policy, grantee string, priority int) domain.PolicyAttachment {
	return domain.PolicyAttachment{
		PolicyName: policy,
		Column:     domain.Column{Schema: "public", Table: "users", Name: "ssn"},
		Grantee:    grantee,
		Priority:   priority,
	}
}

func TestDetect_EmptyInputs(t *testing.T) {
	logger, _ := newTestLogger()
	drift := NewDriftDetector(logger).Detect(nil, nil, false)
	assert.True(t, drift.Empty())
}

func TestDetect_IdenticalStatesHaveNoDrift(t *testing.T) {
	logger, _ := newTestLogger()
	state := []domain.PolicyAttachment{
		att("mask_public_users_ssn", "PUBLIC", 10),
		att("unmask_public_users_ssn", "dwadmin", 300),
	}
	drift := NewDriftDetector(logger).Detect(state, state, false)
	assert.True(t, drift.Empty())
}

func TestDetect_Missing(t *testing.T) {
	logger, buf := newTestLogger()
	expected := []domain.PolicyAttachment{att("mask_public_users_ssn", "PUBLIC", 10)}

	drift := NewDriftDetector(logger).Detect(expected, nil, false)
	require.Len(t, drift.Missing, 1)
	assert.Empty(t, drift.Extra)
	assert.Empty(t, drift.Mismatched)
	assert.Contains(t, buf.String(), "attachment missing")
}

func TestDetect_Extra(t *testing.T) {
	logger, buf := newTestLogger()
	actual := []domain.PolicyAttachment{att("deny_public_users_ssn", "old_user", 200)}

	drift := NewDriftDetector(logger).Detect(nil, actual, false)
	require.Len(t, drift.Extra, 1)
	assert.Contains(t, buf.String(), "attachment not expected")
}

func TestDetect_Mismatched(t *testing.T) {
	logger, buf := newTestLogger()
	expected := []domain.PolicyAttachment{att("mask_public_users_ssn", "ALICE", 100)}
	actual := []domain.PolicyAttachment{att("unmask_public_users_ssn", "ALICE", 300)}

	drift := NewDriftDetector(logger).Detect(expected, actual, false)
	require.Len(t, drift.Mismatched, 1)
	assert.Empty(t, drift.Missing)
	assert.Empty(t, drift.Extra)
	assert.Equal(t, "mask_public_users_ssn", drift.Mismatched[0].Expected.PolicyName)
	assert.Equal(t, "unmask_public_users_ssn", drift.Mismatched[0].Actual.PolicyName)
	assert.Contains(t, buf.String(), "attachment mismatched")
	assert.Contains(t, buf.String(), "expected_priority=100")
}

func TestDetect_GranteeCaseCollapses(t *testing.T) {
	logger, _ := newTestLogger()
	expected := []domain.PolicyAttachment{att("unmask_public_users_ssn", "Alice", 300)}
	actual := []domain.PolicyAttachment{att("unmask_public_users_ssn", "ALICE", 300)}

	drift := NewDriftDetector(logger).Detect(expected, actual, false)
	assert.True(t, drift.Empty())
}

func TestDetect_SilentSuppressesLogging(t *testing.T) {
	logger, buf := newTestLogger()
	expected := []domain.PolicyAttachment{att("mask_public_users_ssn", "PUBLIC", 10)}
	actual := []domain.PolicyAttachment{att("deny_public_users_ssn", "old_user", 200)}

	drift := NewDriftDetector(logger).Detect(expected, actual, true)
	assert.Len(t, drift.Missing, 1)
	assert.Len(t, drift.Extra, 1)
	assert.Empty(t, buf.String())
}
