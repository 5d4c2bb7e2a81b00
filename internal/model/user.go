package model

import "time"

type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	CompanyID       string     `json:"company_id"`
	Role            string     `json:"role,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
}

// UserPatch carries the fields of a partial profile update; nil means keep.
type UserPatch struct {
	Name            *string    `json:"name,omitempty"`
	Email           *string    `json:"email,omitempty"`
	CompanyID       *string    `json:"company_id,omitempty"`
	Role            *string    `json:"role,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
}

// Apply shallow-merges p into a copy of u.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.CompanyID != nil {
		u.CompanyID = *p.CompanyID
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.EmailVerifiedAt != nil {
		u.EmailVerifiedAt = p.EmailVerifiedAt
	}
	return u
}

type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Credentials is what login and register hand to the session.
type Credentials struct {
	User         *User  `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}
