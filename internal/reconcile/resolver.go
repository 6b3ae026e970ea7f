// Package reconcile implements the masking-policy reconciliation engine:
// principal resolution, expected-state computation, drift detection, and
// the cycle orchestration that applies corrections.
package reconcile

import (
	"log/slog"
	"strings"

	"masksync/domain"
	"masksync/internal/maskconfig"
)

// nonprodSuffix marks the environment-tier variant of a warehouse group.
const nonprodSuffix = "nonprod"

// groupExpansions maps canonical warehouse roles to their environment-tier
// variants. A role absent from the table expands to itself only.
var groupExpansions = map[string][]string{
	"dwadmin":    {"dwadmin", "dwadmin" + nonprodSuffix},
	"dwuser":     {"dwuser", "dwuser" + nonprodSuffix},
	"dwreadonly": {"dwreadonly", "dwreadonly" + nonprodSuffix},
}

// UserResolver translates configuration-level role references into concrete,
// canonically-cased database principal names. It never fails on unknown
// input: unresolvable roles are logged and contribute nothing.
type UserResolver struct {
	cfg       *maskconfig.Config
	directory *domain.PrincipalDirectory
	logger    *slog.Logger
}

// NewUserResolver creates a resolver over this cycle's principal directory.
func NewUserResolver(cfg *maskconfig.Config, directory *domain.PrincipalDirectory, logger *slog.Logger) *UserResolver {
	return &UserResolver{cfg: cfg, directory: directory, logger: logger}
}

// ResolveAttachableUsers resolves each configured role name into the set of
// currently-valid database principals. Superuser roles contribute nothing:
// the warehouse forbids attaching policies to them.
func (r *UserResolver) ResolveAttachableUsers(roles []string) map[string]struct{} {
	users := make(map[string]struct{})
	for _, raw := range roles {
		role := r.cfg.ExpandEnv(raw)
		userType, ok := r.cfg.UserTypeOf(role)
		if !ok {
			r.logger.Warn("role not found in user_types", "role", role)
			continue
		}
		switch userType {
		case domain.UserTypeSuperuser:
			r.logger.Info("skipping superuser role, policies are never attached to superusers", "role", role)
		case domain.UserTypeIAMRole:
			for u := range r.resolveIAMRole(role) {
				users[u] = struct{}{}
			}
		case domain.UserTypeRedshiftUser:
			if u, found := r.directory.Lookup(role); found {
				users[u] = struct{}{}
			} else {
				r.logger.Warn("user not found in database", "user", role)
			}
		default:
			r.logger.Warn("unknown user type", "role", role)
		}
	}
	return users
}

// resolveIAMRole finds every directory identity whose group memberships
// intersect the expanded target group set, then maps each identity to its
// IAM-prefixed database principal.
func (r *UserResolver) resolveIAMRole(role string) map[string]struct{} {
	targets := expandGroups(role)
	users := make(map[string]struct{})
	for name, identity := range r.cfg.Directory() {
		if !intersects(identity.Groups, targets) {
			continue
		}
		if u, found := r.directory.Lookup("IAM:" + strings.ToUpper(name)); found {
			users[u] = struct{}{}
		} else {
			r.logger.Warn("IAM user not found in database", "identity", name)
		}
	}
	return users
}

// SuperuserAllowed reports whether the allowed list of the permissions
// block names at least one superuser-classified role. Evaluated per column,
// it selects between the public-baseline and per-principal build modes.
func (r *UserResolver) SuperuserAllowed(perms *maskconfig.Permissions) bool {
	if perms == nil {
		return false
	}
	for _, role := range perms.Allowed {
		if ut, ok := r.cfg.UserTypeOf(r.cfg.ExpandEnv(role)); ok && ut == domain.UserTypeSuperuser {
			return true
		}
	}
	return false
}

// ImplicitlyMaskedUsers returns the attachable principals named under no
// permission type. Per-principal mode masks these explicitly so every
// attachable principal ends up with exactly one policy.
func (r *UserResolver) ImplicitlyMaskedUsers(explicit ...map[string]struct{}) map[string]struct{} {
	implicit := r.attachableUsers()
	for _, set := range explicit {
		for u := range set {
			delete(implicit, u)
		}
	}
	return implicit
}

// attachableUsers returns every current database principal except those
// matching a superuser-classified role, canonically cased.
func (r *UserResolver) attachableUsers() map[string]struct{} {
	superusers := make(map[string]struct{})
	for _, role := range r.cfg.Superusers() {
		superusers[strings.ToUpper(role)] = struct{}{}
	}

	users := make(map[string]struct{})
	for _, name := range r.directory.Names() {
		if _, isSuper := superusers[strings.ToUpper(name)]; isSuper {
			continue
		}
		users[name] = struct{}{}
	}
	return users
}

// expandGroups returns the target group set for an iam_role reference.
func expandGroups(role string) map[string]struct{} {
	variants, ok := groupExpansions[role]
	if !ok {
		variants = []string{role}
	}
	set := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		set[v] = struct{}{}
	}
	return set
}

func intersects(groups []string, targets map[string]struct{}) bool {
	for _, g := range groups {
		if _, ok := targets[g]; ok {
			return true
		}
	}
	return false
}
