package reconcile

import (
	"bytes"
	"log/slog"

	"masksync/domain"
	"masksync/internal/maskconfig"
)

// Shared fixture: prod environment, IAM-backed groups plus one service
// user and one superuser.
//
// Warehouse principals: IAM:alice, IAM:carol, etl_prod, legacy_joe, admin.
// Directory: alice→dwadmin, bob→dwuser (no warehouse user), carol→dwadminnonprod,
// dave→marketing.
func newTestConfig() *maskconfig.Config {
	doc := &maskconfig.MaskingDoc{
		UserTypes: map[string][]string{
			"iam_role":      {"dwadmin", "dwuser"},
			"redshift_user": {"etl_{env}", "legacy_joe"},
			"superuser":     {"admin"},
			"service_acct":  {"reporting"},
		},
	}
	directory := maskconfig.DirectoryDoc{
		"alice": {Groups: []string{"dwadmin", "engineering"}},
		"bob":   {Groups: []string{"dwuser"}},
		"carol": {Groups: []string{"dwadminnonprod"}},
		"dave":  {Groups: []string{"marketing"}},
	}
	return maskconfig.New(doc, directory, "prod")
}

func warehouseUsers() []string {
	return []string{"IAM:alice", "IAM:carol", "etl_prod", "legacy_joe", "admin"}
}

func newTestResolver() (*UserResolver, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	directory := domain.NewPrincipalDirectory(warehouseUsers())
	return NewUserResolver(newTestConfig(), directory, logger), &buf
}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func keysOf(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
