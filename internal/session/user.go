package session

import (
	"encoding/json"
	"strconv"
)

// User is the cached profile. Like the roster, upstream id and name
// fields arrive under several conventions and are folded here once.
type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profile_picture"`
}

// DisplayName falls back through full name, then email.
func (u *User) DisplayName() string {
	if u == nil {
		return "Anonymous"
	}
	if u.FullName != "" {
		return u.FullName
	}
	if u.Email != "" {
		return u.Email
	}
	return "User"
}

func (u *User) Initials() string {
	name := u.DisplayName()
	if name == "" {
		return "U"
	}
	return string([]rune(name)[:1])
}

func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         interface{} `json:"id"`
		IDAlt      interface{} `json:"Id"`
		IDUpper    interface{} `json:"ID"`
		UserID     interface{} `json:"user_id"`
		Email      string      `json:"email"`
		FullName   string      `json:"full_name"`
		Name       string      `json:"name"`
		Role       string      `json:"role"`
		Picture    string      `json:"profile_picture"`
		PictureAlt string      `json:"profile_photo"`
		Avatar     string      `json:"avatar"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u.ID = firstUserID(raw.ID, raw.IDAlt, raw.IDUpper, raw.UserID)
	u.Email = raw.Email
	if raw.FullName != "" {
		u.FullName = raw.FullName
	} else {
		u.FullName = raw.Name
	}
	u.Role = raw.Role
	switch {
	case raw.Picture != "":
		u.ProfilePicture = raw.Picture
	case raw.PictureAlt != "":
		u.ProfilePicture = raw.PictureAlt
	default:
		u.ProfilePicture = raw.Avatar
	}
	return nil
}

func firstUserID(candidates ...interface{}) string {
	for _, c := range candidates {
		switch t := c.(type) {
		case string:
			if t != "" {
				return t
			}
		case json.Number:
			return t.String()
		case float64:
			return json.Number(strconv.FormatFloat(t, 'f', -1, 64)).String()
		}
	}
	return ""
}
