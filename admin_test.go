package coinboard

import (
	"context"
	"testing"

	m "coinboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func adminUsers() []m.AdminUser {
	return []m.AdminUser{
		{Id: 1, Username: "alice", Email: "alice@mail.io", Balance: 100, Roles: []string{"ROLE_USER", m.AdminRole}, Enabled: true},
		{Id: 2, Username: "bob", Email: "bob@mail.io", Balance: 50, Roles: []string{"ROLE_USER"}, Enabled: true},
		{Id: 3, Username: "Carol", Email: "carol@corp.com", Balance: 0, Roles: []string{"ROLE_USER"}, Enabled: true},
	}
}

func newAdminSession(t *testing.T, mock *BackendMock) *Session {
	t.Helper()

	mock.loginResult = loginResult("tok", "alice", "ROLE_USER", m.AdminRole)
	s := newTestSession(mock)
	assert.NoError(t, s.Login(context.Background(), "alice", "secret"))
	return s
}

func TestAdminGateBlocksNonAdmins(t *testing.T) {

	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		mock := NewBackendMock()
		s := newTestSession(mock)

		_, err := s.AdminUsers(ctx, "")
		assert.EqualError(t, err, "login required")
		assert.EqualError(t, s.ToggleUserRole(ctx, "bob"), "login required")
		assert.EqualError(t, s.AdjustUserFunds(ctx, "bob", "10", false), "login required")
		assert.Empty(t, mock.Calls())
	})

	t.Run("plain user", func(t *testing.T) {
		mock := NewBackendMock()
		mock.loginResult = loginResult("tok", "bob", "ROLE_USER")
		s := newTestSession(mock)
		assert.NoError(t, s.Login(ctx, "bob", "secret"))

		_, err := s.AdminUsers(ctx, "")
		assert.True(t, IsValidation(err))
		assert.EqualError(t, err, "admin role required")
		assert.EqualError(t, s.ToggleUserRole(ctx, "alice"), "admin role required")
		assert.EqualError(t, s.AdjustUserFunds(ctx, "alice", "10", false), "admin role required")
		assert.Equal(t, 0, mock.CallCount("Users"))
	})
}

func TestAdminUserSearch(t *testing.T) {

	mock := NewBackendMock()
	mock.users = adminUsers()
	s := newAdminSession(t, mock)
	ctx := context.Background()

	all, err := s.AdminUsers(ctx, "")
	assert.NoError(t, err)
	assert.Len(t, all, 3)

	testcases := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "by username", query: "bob", want: []string{"bob"}},
		{name: "case-insensitive", query: "CAROL", want: []string{"Carol"}},
		{name: "by email", query: "@mail.io", want: []string{"alice", "bob"}},
		{name: "by id", query: "3", want: []string{"Carol"}},
		{name: "padded", query: "  alice ", want: []string{"alice"}},
		{name: "no match", query: "zz", want: []string{}},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			users, err := s.AdminUsers(ctx, tc.query)
			assert.NoError(t, err)

			names := make([]string, 0, len(users))
			for _, u := range users {
				names = append(names, u.Username)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestAdminToggleRole(t *testing.T) {

	mock := NewBackendMock()
	mock.users = adminUsers()
	s := newAdminSession(t, mock)
	ctx := context.Background()

	_, err := s.AdminUsers(ctx, "")
	assert.NoError(t, err)

	// bob is a plain user, the toggle promotes him and reloads
	assert.NoError(t, s.ToggleUserRole(ctx, "bob"))
	assert.Equal(t, 1, mock.CallCount("Promote bob"))
	assert.Equal(t, 2, mock.CallCount("Users"))

	users, err := s.AdminUsers(ctx, "bob")
	assert.NoError(t, err)
	assert.True(t, users[0].IsAdmin())

	// now an admin, the same toggle demotes him
	assert.NoError(t, s.ToggleUserRole(ctx, "bob"))
	assert.Equal(t, 1, mock.CallCount("Demote bob"))

	before := len(mock.Calls())
	assert.EqualError(t, s.ToggleUserRole(ctx, "alice"), "cannot change your own role")
	assert.EqualError(t, s.ToggleUserRole(ctx, "nobody"), "unknown user")
	assert.Len(t, mock.Calls(), before)
}

func TestAdminAdjustFunds(t *testing.T) {

	mock := NewBackendMock()
	mock.users = adminUsers()
	s := newAdminSession(t, mock)
	ctx := context.Background()

	_, err := s.AdminUsers(ctx, "")
	assert.NoError(t, err)

	// comma decimal credit, the server row replaces the cached one
	assert.NoError(t, s.AdjustUserFunds(ctx, "bob", "12,50", false))
	assert.Equal(t, 62.5, s.admin.Users("bob")[0].Balance)

	// remove mode debits
	assert.NoError(t, s.AdjustUserFunds(ctx, "bob", "2.5", true))
	assert.Equal(t, 60.0, s.admin.Users("bob")[0].Balance)

	// a bad amount never reaches the server
	err = s.AdjustUserFunds(ctx, "bob", "ten", false)
	assert.True(t, IsValidation(err))
	assert.EqualError(t, err, "amount must be a number")
	assert.Equal(t, 2, mock.CallCount("AdjustFunds bob"))

	assert.EqualError(t, s.AdjustUserFunds(ctx, "nobody", "5", false), "unknown user")
}
