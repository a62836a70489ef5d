package entity

// TimezonePreference is a user's chosen display/input timezone.
// There is at most one record per owner; setting it again updates in place.
type TimezonePreference struct {
	ID      int
	OwnerID int64
	Code    string
}
