package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedirect(t *testing.T) {
	in := State{IsInitialized: true, IsAuthenticated: true, User: &User{}}
	out := State{IsInitialized: true}
	loading := State{IsLoading: true}

	cases := []struct {
		name   string
		st     State
		path   string
		to     string
		redirs bool
	}{
		{"logged out on protected page", out, "/bets", LoginPath, true},
		{"logged out on landing", out, "/", LoginPath, true},
		{"logged out on login", out, "/login", "", false},
		{"logged out on callback", out, "/auth/callback", "", false},
		{"logged out trailing slash", out, "/profile/", LoginPath, true},
		{"logged in on login", in, "/login", LandingPath, true},
		{"logged in on login trailing slash", in, "/login/", LandingPath, true},
		{"logged in on protected page", in, "/live-matches", "", false},
		{"logged in on callback", in, "/auth/callback", "", false},
		{"not initialized", loading, "/bets", "", false},
		{"initializing on login", State{}, "/login", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			to, ok := Redirect(tc.st, tc.path)
			assert.Equal(t, tc.redirs, ok)
			assert.Equal(t, tc.to, to)
		})
	}
}
