package reconcile

import (
	"log/slog"
	"sort"

	"masksync/domain"
	"masksync/internal/maskconfig"
)

// PolicyBuilder computes the expected attachment set from configuration,
// resolved principals, and the observed column types.
type PolicyBuilder struct {
	cfg      *maskconfig.Config
	resolver *UserResolver
	logger   *slog.Logger
}

// NewPolicyBuilder creates a builder over this cycle's resolver.
func NewPolicyBuilder(cfg *maskconfig.Config, resolver *UserResolver, logger *slog.Logger) *PolicyBuilder {
	return &PolicyBuilder{cfg: cfg, resolver: resolver, logger: logger}
}

// BuildExpectedState returns the expected attachments for every configured
// column whose identifier parses and whose type was observed. Columns
// absent from the type map contribute nothing, so any stale attachment on
// them surfaces as pure extra drift.
func (b *PolicyBuilder) BuildExpectedState(types map[domain.Column]domain.ColumnType) []domain.PolicyAttachment {
	var expected []domain.PolicyAttachment
	for _, entry := range b.cfg.ColumnsConfig() {
		col, ok := domain.ParseColumn(entry.ID)
		if !ok {
			// Malformed identifiers are treated as authoring mistakes and
			// skipped without failing the run.
			b.logger.Debug("skipping malformed column identifier", "column", entry.ID)
			continue
		}
		if _, observed := types[col]; !observed {
			continue
		}
		expected = append(expected, b.buildColumn(col, entry.Permissions)...)
	}
	return expected
}

func (b *PolicyBuilder) buildColumn(col domain.Column, perms *maskconfig.Permissions) []domain.PolicyAttachment {
	if b.resolver.SuperuserAllowed(perms) {
		return b.buildPerPrincipal(col, perms)
	}
	return b.buildBaseline(col, perms)
}

// buildBaseline emits a PUBLIC catch-all mask plus explicit allow/deny
// overrides. No explicit masked entries: the catch-all already covers every
// principal without an override, and the priority ordering guarantees
// overrides win.
func (b *PolicyBuilder) buildBaseline(col domain.Column, perms *maskconfig.Permissions) []domain.PolicyAttachment {
	baseline, _ := b.cfg.PolicyName(domain.PermissionMasked, col)
	out := []domain.PolicyAttachment{{
		PolicyName: baseline,
		Column:     col,
		Grantee:    domain.PublicGrantee,
		Priority:   domain.BaselinePriority,
	}}
	if perms == nil {
		return out
	}

	sets := b.resolvePermissions(perms)
	out = append(out, b.attachmentsFor(col, domain.PermissionAllowed, sets.allowed)...)
	out = append(out, b.attachmentsFor(col, domain.PermissionDenied, sets.denied)...)
	return out
}

// buildPerPrincipal emits one explicit attachment for every attachable
// principal: the resolved allowed/masked/denied sets at their standard
// priorities, then a masked attachment for the implicit complement. No
// PUBLIC catch-all in this mode.
func (b *PolicyBuilder) buildPerPrincipal(col domain.Column, perms *maskconfig.Permissions) []domain.PolicyAttachment {
	sets := b.resolvePermissions(perms)
	implicit := b.resolver.ImplicitlyMaskedUsers(sets.allowed, sets.masked, sets.denied)

	var out []domain.PolicyAttachment
	out = append(out, b.attachmentsFor(col, domain.PermissionAllowed, sets.allowed)...)
	out = append(out, b.attachmentsFor(col, domain.PermissionMasked, sets.masked)...)
	out = append(out, b.attachmentsFor(col, domain.PermissionDenied, sets.denied)...)
	out = append(out, b.attachmentsFor(col, domain.PermissionMasked, implicit)...)
	return out
}

// resolvedSets holds the three disjoint principal sets after precedence.
type resolvedSets struct {
	allowed map[string]struct{}
	masked  map[string]struct{}
	denied  map[string]struct{}
}

func (b *PolicyBuilder) resolvePermissions(perms *maskconfig.Permissions) resolvedSets {
	return applyPrecedence(
		b.resolver.ResolveAttachableUsers(perms.Roles(domain.PermissionAllowed)),
		b.resolver.ResolveAttachableUsers(perms.Roles(domain.PermissionMasked)),
		b.resolver.ResolveAttachableUsers(perms.Roles(domain.PermissionDenied)),
	)
}

// applyPrecedence reduces the raw resolved sets to disjoint outcomes by
// strict subtraction in rank order: allow beats mask beats deny. A
// principal named in several lists gets exactly one outcome, and the
// outcome agrees with the priority ordering used to break warehouse-side
// ties.
func applyPrecedence(allowed, masked, denied map[string]struct{}) resolvedSets {
	m := subtract(masked, allowed)
	d := subtract(subtract(denied, allowed), m)
	return resolvedSets{allowed: allowed, masked: m, denied: d}
}

func subtract(set, remove map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		if _, ok := remove[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// attachmentsFor emits one attachment per principal, in sorted grantee
// order so expected state is deterministic across runs. Naming and
// priority come from the configuration lookups.
func (b *PolicyBuilder) attachmentsFor(col domain.Column, t domain.PermissionType, users map[string]struct{}) []domain.PolicyAttachment {
	name, ok := b.cfg.PolicyName(t, col)
	if !ok {
		return nil
	}
	priority, _ := b.cfg.PolicyPriority(t)

	names := make([]string, 0, len(users))
	for u := range users {
		names = append(names, u)
	}
	sort.Strings(names)

	out := make([]domain.PolicyAttachment, 0, len(names))
	for _, u := range names {
		out = append(out, domain.PolicyAttachment{
			PolicyName: name,
			Column:     col,
			Grantee:    u,
			Priority:   priority,
		})
	}
	return out
}
