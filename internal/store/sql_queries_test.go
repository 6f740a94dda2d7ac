package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/vosh/models"
)

func TestBuildCreateUser(t *testing.T) {
	user := models.UserRecord{
		HashedUsername: "h-u",
		DisplayName:    "alice",
		HashedPassword: "h-p",
		HashedPIN:      "h-n",
		IsAdmin:        true,
	}

	query, args, err := buildCreateUser(user)
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO users (username,name,password,security_key,pin,privileges) VALUES (?,?,?,?,?,?)",
		query)
	assert.Equal(t, []any{"h-u", "alice", "h-p", "", "h-n", models.PrivilegesAdmin}, args)
}

func TestBuildFindUser(t *testing.T) {
	query, args, err := buildFindUser("h-u")
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT username, name, password, security_key, pin, privileges FROM users WHERE username = ?",
		query)
	assert.Equal(t, []any{"h-u"}, args)
}

func TestBuildUpdateUserField(t *testing.T) {
	query, args, err := buildUpdateUserField("h-u", models.FieldPrivileges, models.PrivilegesAdmin)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE users SET privileges = ? WHERE username = ?", query)
	assert.Equal(t, []any{models.PrivilegesAdmin, "h-u"}, args)
}

func TestBuildDeleteUser(t *testing.T) {
	query, args, err := buildDeleteUser("h-u")
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM users WHERE username = ?", query)
	assert.Equal(t, []any{"h-u"}, args)
}

func TestBuildUserExists(t *testing.T) {
	query, args, err := buildUserExists("h-u")
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(1) FROM users WHERE username = ?", query)
	assert.Equal(t, []any{"h-u"}, args)
}

func TestBuildListUsers(t *testing.T) {
	query, args, err := buildListUsers()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT username, name, password, security_key, pin, privileges FROM users ORDER BY name",
		query)
	assert.Empty(t, args)
}
