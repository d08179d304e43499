package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringListRoundTrip(t *testing.T) {
	in := StringList{"client", "designer"}

	v, err := in.Value()
	require.NoError(t, err)

	var out StringList
	require.NoError(t, out.Scan(v))
	require.Equal(t, in, out)
}

func TestStringListScanNil(t *testing.T) {
	var out StringList
	require.NoError(t, out.Scan(nil))
	require.Empty(t, out)
}

func TestUserRoles(t *testing.T) {
	u := User{Roles: StringList{"client"}}
	require.True(t, u.HasRole(RoleClient))
	require.False(t, u.HasRole(RoleDesigner))
	require.False(t, u.IsAdmin())

	u.AddRole(RoleDesigner)
	u.AddRole(RoleDesigner)
	require.Equal(t, StringList{"client", "designer"}, u.Roles)
}
