package domain

import "fmt"

// ActivityIdentity identifies one launchable activity within one profile.
// Two identities are equal iff all three fields match, so the struct is
// usable directly as a map key.
type ActivityIdentity struct {
	Package string
	Class   string
	Profile ProfileID
}

func (a ActivityIdentity) String() string {
	return fmt.Sprintf("%s/%s@%s", a.Package, a.Class, a.Profile)
}

// ActivityIdentitySer is the persisted counterpart of ActivityIdentity.
type ActivityIdentitySer struct {
	Package       string        `json:"package"`
	Class         string        `json:"class"`
	ProfileSerial ProfileSerial `json:"profile_serial"`
}

func (a ActivityIdentitySer) String() string {
	return fmt.Sprintf("%s/%s#%d", a.Package, a.Class, a.ProfileSerial)
}
