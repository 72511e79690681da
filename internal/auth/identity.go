package auth

import "github.com/google/uuid"

// identityNamespace pins the UUIDv5 derivation so the same external auth id
// always maps to the same internal profile id across deployments.
var identityNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// InternalID derives the stable internal profile id for an external
// auth-provider identity string. One-way; there is no reverse mapping.
func InternalID(externalID string) string {
	return uuid.NewSHA1(identityNamespace, []byte(externalID)).String()
}
