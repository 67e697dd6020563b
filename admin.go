package coinboard

import (
	"context"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	m "coinboard/internal/model"

	"github.com/rs/zerolog"
)

// AdminDesk is the user-management view behind the admin page: the full
// account listing with client-side search, role promotion and balance
// adjustment. The session gates every entry point on the admin role, so
// the desk itself only deals with server truth.
type AdminDesk struct {
	api adminAPI
	lg  zerolog.Logger

	mu    sync.Mutex
	users []m.AdminUser
}

func NewAdminDesk(api adminAPI) *AdminDesk {
	return &AdminDesk{
		api: api,
		lg:  zerolog.New(os.Stdout).With().Str("Module", "AdminDesk").Timestamp().Logger(),
	}
}

// Load replaces the cached listing with the server's.
func (d *AdminDesk) Load(ctx context.Context) error {
	users, err := d.api.Users(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.users = users
	d.mu.Unlock()
	return nil
}

// Users returns the cached listing filtered by the search query. The
// query matches the id, username or email, case-insensitively; an
// empty query returns everyone.
func (d *AdminDesk) Users(query string) []m.AdminUser {
	q := strings.ToLower(strings.TrimSpace(query))

	d.mu.Lock()
	defer d.mu.Unlock()

	if q == "" {
		return slices.Clone(d.users)
	}

	out := make([]m.AdminUser, 0, len(d.users))
	for _, u := range d.users {
		if strings.Contains(strconv.FormatInt(u.Id, 10), q) ||
			strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out
}

// ToggleRole promotes a plain user to admin, or demotes an admin back
// to plain user, based on the cached roles. The listing is reloaded
// afterwards so role changes made elsewhere are not masked.
func (d *AdminDesk) ToggleRole(ctx context.Context, username string) error {
	user, ok := d.byUsername(username)
	if !ok {
		return validationErr("unknown user")
	}

	var err error
	if user.IsAdmin() {
		err = d.api.Demote(ctx, username)
	} else {
		err = d.api.Promote(ctx, username)
	}
	if err != nil {
		return err
	}
	return d.Load(ctx)
}

// AdjustFunds credits or debits a user's balance. The raw amount goes
// through the same money parsing as the user-facing funds form; remove
// turns it into a negative delta. The server's updated row replaces the
// stale one in place.
func (d *AdminDesk) AdjustFunds(ctx context.Context, username, rawAmount string, remove bool) error {
	if _, ok := d.byUsername(username); !ok {
		return validationErr("unknown user")
	}

	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return err
	}
	if remove {
		amount = -amount
	}

	updated, err := d.api.AdjustFunds(ctx, username, amount)
	if err != nil {
		return err
	}

	d.mu.Lock()
	for i := range d.users {
		if d.users[i].Username == updated.Username {
			d.users[i] = *updated
		}
	}
	d.mu.Unlock()
	return nil
}

func (d *AdminDesk) Clear() {
	d.mu.Lock()
	d.users = nil
	d.mu.Unlock()
}

func (d *AdminDesk) byUsername(username string) (m.AdminUser, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Username == username {
			return u, true
		}
	}
	return m.AdminUser{}, false
}
