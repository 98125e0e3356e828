package domain

import "time"

// UserRole separates residents from complex staff and administrators.
type UserRole string

const (
	RoleResident     UserRole = "RESIDENT"
	RoleStaff        UserRole = "STAFF"
	RoleComplexAdmin UserRole = "COMPLEX_ADMIN"
)

// User is anyone who reports, works on, or is notified about a PQR.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	DeviceToken  string
	PasswordHash string
	Role         UserRole
	Channels     []Channel
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NotificationChannels returns the user's enabled channels, defaulting to
// email when no preference is stored.
func (u *User) NotificationChannels() []Channel {
	if len(u.Channels) == 0 {
		return []Channel{ChannelEmail}
	}
	return u.Channels
}

// AddressFor returns the delivery address for a channel, empty when the
// user has none for it.
func (u *User) AddressFor(ch Channel) string {
	switch ch {
	case ChannelEmail:
		return u.Email
	case ChannelPush:
		return u.DeviceToken
	case ChannelSMS:
		return u.Phone
	}
	return ""
}
