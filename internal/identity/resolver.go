// Package identity builds the identity keys that tie catalog entries to
// persisted favorites.
package identity

import "github.com/MrSnakeDoc/easylaunch/internal/domain"

// ProfileSerializer converts profile handles to persistable serials.
// *profiles.Registry implements it.
type ProfileSerializer interface {
	Serialize(p domain.ProfileID) domain.ProfileSerial
	Deserialize(s domain.ProfileSerial) (domain.ProfileID, bool)
}

// Resolver builds ActivityIdentity values and converts them to and from
// their persisted form.
type Resolver struct {
	selfPackage string
	profiles    ProfileSerializer
}

// NewResolver creates a resolver. selfPackage is the launcher's own
// package, which is never listed in its catalog.
func NewResolver(selfPackage string, profiles ProfileSerializer) *Resolver {
	return &Resolver{
		selfPackage: selfPackage,
		profiles:    profiles,
	}
}

// IdentityOf extracts the identity of a raw activity descriptor.
func (r *Resolver) IdentityOf(info domain.ActivityInfo) domain.ActivityIdentity {
	return domain.ActivityIdentity{
		Package: info.Package,
		Class:   info.Class,
		Profile: info.Profile,
	}
}

// IsSelf reports whether id belongs to the launcher itself.
func (r *Resolver) IsSelf(id domain.ActivityIdentity) bool {
	return r.selfPackage != "" && id.Package == r.selfPackage
}

// Serialize returns the persisted form of id.
func (r *Resolver) Serialize(id domain.ActivityIdentity) domain.ActivityIdentitySer {
	return domain.ActivityIdentitySer{
		Package:       id.Package,
		Class:         id.Class,
		ProfileSerial: r.profiles.Serialize(id.Profile),
	}
}

// Deserialize returns the live identity for ser. ok is false when the
// profile is no longer known; callers drop such entries silently.
func (r *Resolver) Deserialize(ser domain.ActivityIdentitySer) (domain.ActivityIdentity, bool) {
	profile, ok := r.profiles.Deserialize(ser.ProfileSerial)
	if !ok {
		return domain.ActivityIdentity{}, false
	}
	return domain.ActivityIdentity{
		Package: ser.Package,
		Class:   ser.Class,
		Profile: profile,
	}, true
}
