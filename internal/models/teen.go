package models

import "time"

// Account role brackets for dependent accounts
const (
	AccountRoleChild      = "child"       // ages 8-12
	AccountRoleTeen       = "teen"        // ages 13-17
	AccountRoleYoungAdult = "young-adult" // ages 18-25
)

// Teen represents a dependent account with its own login, owned by one parent
type Teen struct {
	ID                     string    `json:"id"`
	ParentID               string    `json:"parentId"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone,omitempty"`
	PasswordHash           string    `json:"-"`
	AccountRole            string    `json:"accountRole"`
	Age                    int       `json:"age"`
	NotificationPreference string    `json:"notificationPreference"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// AccountRoleForAge returns the account role bracket for an age, or ""
// when the age falls outside all brackets
func AccountRoleForAge(age int) string {
	switch {
	case age >= 8 && age <= 12:
		return AccountRoleChild
	case age >= 13 && age <= 17:
		return AccountRoleTeen
	case age >= 18 && age <= 25:
		return AccountRoleYoungAdult
	default:
		return ""
	}
}
