package maskconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masksync/domain"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	doc := &MaskingDoc{
		UserTypes: map[string][]string{
			"iam_role":      {"dwadmin", "dwuser"},
			"redshift_user": {"etl_{env}"},
			"superuser":     {"admin"},
			"service_acct":  {"reporting"},
		},
		Columns: []map[string]*Permissions{
			{"public.users.ssn": {Allowed: []string{"dwadmin"}, Masked: []string{"dwuser"}}},
			{"public.users.dob": nil},
		},
	}
	return New(doc, DirectoryDoc{}, "prod")
}

func TestPolicyNameAndPriority(t *testing.T) {
	cfg := testConfig(t)

	ssn := domain.Column{Schema: "public", Table: "users", Name: "ssn"}

	name, ok := cfg.PolicyName(domain.PermissionAllowed, ssn)
	require.True(t, ok)
	assert.Equal(t, "unmask_public_users_ssn", name)

	name, ok = cfg.PolicyName(domain.PermissionMasked, ssn)
	require.True(t, ok)
	assert.Equal(t, "mask_public_users_ssn", name)

	_, ok = cfg.PolicyName(domain.PermissionType("bogus"), ssn)
	assert.False(t, ok)

	prio, ok := cfg.PolicyPriority(domain.PermissionDenied)
	require.True(t, ok)
	assert.Equal(t, 200, prio)

	_, ok = cfg.PolicyPriority(domain.PermissionType("bogus"))
	assert.False(t, ok)
}

func TestColumnsConfig_PreservesOrder(t *testing.T) {
	cfg := testConfig(t)

	entries := cfg.ColumnsConfig()
	require.Len(t, entries, 2)
	assert.Equal(t, "public.users.ssn", entries[0].ID)
	assert.Equal(t, "public.users.dob", entries[1].ID)
	assert.Nil(t, entries[1].Permissions)
}

func TestUserTypeOf(t *testing.T) {
	cfg := testConfig(t)

	ut, ok := cfg.UserTypeOf("dwadmin")
	require.True(t, ok)
	assert.Equal(t, domain.UserTypeIAMRole, ut)

	// Classification lookups are case-insensitive.
	ut, ok = cfg.UserTypeOf("DWADMIN")
	require.True(t, ok)
	assert.Equal(t, domain.UserTypeIAMRole, ut)

	// Env templating resolves before lookup: etl_{env} was registered as etl_prod.
	ut, ok = cfg.UserTypeOf("etl_prod")
	require.True(t, ok)
	assert.Equal(t, domain.UserTypeRedshiftUser, ut)

	ut, ok = cfg.UserTypeOf("etl_{env}")
	require.True(t, ok)
	assert.Equal(t, domain.UserTypeRedshiftUser, ut)

	ut, ok = cfg.UserTypeOf("admin")
	require.True(t, ok)
	assert.Equal(t, domain.UserTypeSuperuser, ut)

	// Listed under an unrecognized classification: found, but unknown type.
	ut, ok = cfg.UserTypeOf("reporting")
	require.True(t, ok)
	assert.Equal(t, domain.UserTypeUnknown, ut)

	_, ok = cfg.UserTypeOf("nobody")
	assert.False(t, ok)
}

func TestExpandEnvAndSuperusers(t *testing.T) {
	cfg := testConfig(t)

	assert.Equal(t, "svc_prod_loader", cfg.ExpandEnv("svc_{env}_loader"))
	assert.Equal(t, "plain", cfg.ExpandEnv("plain"))
	assert.Equal(t, []string{"admin"}, cfg.Superusers())
}
