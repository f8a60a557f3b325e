package domain

import "strconv"

// ProfileID is the runtime handle of an OS user profile.
//
// It is only meaningful for the lifetime of the process and MUST NOT be
// persisted. Use ProfileSerial for anything that outlives the process.
type ProfileID string

// IsZero reports whether p is the empty handle.
func (p ProfileID) IsZero() bool { return p == "" }

// ProfileSerial is the persistable surrogate of a ProfileID.
// Stable across restarts, not across device reset.
type ProfileSerial int64

// UnknownProfileSerial is returned for unknown or empty profiles.
// Real serials are always >= 0, so it never collides.
const UnknownProfileSerial ProfileSerial = -1

// Known reports whether s can refer to a real profile.
func (s ProfileSerial) Known() bool { return s >= 0 }

func (s ProfileSerial) String() string { return strconv.FormatInt(int64(s), 10) }

// ProfileInfo pairs a live handle with the serial the source reports for it.
type ProfileInfo struct {
	ID     ProfileID
	Serial ProfileSerial
}
