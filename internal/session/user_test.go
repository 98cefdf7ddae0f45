package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeUser(t *testing.T, raw string) User {
	t.Helper()
	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	return u
}

func TestUserFieldAliases(t *testing.T) {
	u := decodeUser(t, `{"user_id":17,"name":"Alice","avatar":"pic.png","role":"admin","email":"a@b.c"}`)
	assert.Equal(t, "17", u.ID)
	assert.Equal(t, "Alice", u.FullName)
	assert.Equal(t, "pic.png", u.ProfilePicture)
	assert.Equal(t, "admin", u.Role)
	assert.Equal(t, "a@b.c", u.Email)

	u = decodeUser(t, `{"id":"u1","full_name":"Bob","name":"ignored","profile_picture":"p1","avatar":"ignored"}`)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Bob", u.FullName)
	assert.Equal(t, "p1", u.ProfilePicture)

	u = decodeUser(t, `{"Id":"u2","profile_photo":"p2"}`)
	assert.Equal(t, "u2", u.ID)
	assert.Equal(t, "p2", u.ProfilePicture)
}

func TestUserDisplayName(t *testing.T) {
	var nilUser *User
	assert.Equal(t, "Anonymous", nilUser.DisplayName())

	assert.Equal(t, "Alice", (&User{FullName: "Alice", Email: "a@b.c"}).DisplayName())
	assert.Equal(t, "a@b.c", (&User{Email: "a@b.c"}).DisplayName())
	assert.Equal(t, "User", (&User{}).DisplayName())
}

func TestUserInitials(t *testing.T) {
	assert.Equal(t, "A", (&User{FullName: "Alice"}).Initials())
	assert.Equal(t, "b", (&User{Email: "b@c.d"}).Initials())
	assert.Equal(t, "A", (*User)(nil).Initials())
}
