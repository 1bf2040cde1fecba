package models

import "time"

type AuthEvent string

const (
	AuthInitialSession AuthEvent = "INITIAL_SESSION"
	AuthSignedIn       AuthEvent = "SIGNED_IN"
	AuthSignedOut      AuthEvent = "SIGNED_OUT"
	AuthUserUpdated    AuthEvent = "USER_UPDATED"
)

type UserMetadata struct {
	FullName string `json:"full_name,omitempty" bson:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address1 string `json:"address1,omitempty" bson:"address1,omitempty"`
	Address2 string `json:"address2,omitempty" bson:"address2,omitempty"`
}

// ProfileUpdate carries only the fields being changed; nil means untouched.
type ProfileUpdate struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone"`
	Address1 *string `json:"address1"`
	Address2 *string `json:"address2"`
}

func (m UserMetadata) Merge(update ProfileUpdate) UserMetadata {
	if update.FullName != nil {
		m.FullName = *update.FullName
	}
	if update.Phone != nil {
		m.Phone = *update.Phone
	}
	if update.Address1 != nil {
		m.Address1 = *update.Address1
	}
	if update.Address2 != nil {
		m.Address2 = *update.Address2
	}
	return m
}

type User struct {
	ID         string       `json:"id"`
	Email      string       `json:"email"`
	Metadata   UserMetadata `json:"user_metadata"`
	Created_at time.Time    `json:"created_at"`
	Updated_at time.Time    `json:"updated_at"`
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
