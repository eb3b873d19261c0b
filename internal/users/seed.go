package users

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

var (
	firstNames = []string{"Ada", "Alan", "Barbara", "Claude", "Dennis", "Edsger", "Frances", "Grace", "Hedy", "John", "Ken", "Linus", "Margaret", "Niklaus", "Radia", "Rob"}
	lastNames  = []string{"Allen", "Hopper", "Kernighan", "Knuth", "Lamarr", "Liskov", "Lovelace", "Perlman", "Pike", "Ritchie", "Shannon", "Thompson", "Turing", "Wirth"}
)

// Generate returns n demo users drawn from rng, created over the year
// before now. Ids are left empty for the store to assign.
func Generate(n int, rng *rand.Rand, now time.Time) []User {
	out := make([]User, 0, n)
	for i := 0; i < n; i++ {
		first := firstNames[rng.IntN(len(firstNames))]
		last := lastNames[rng.IntN(len(lastNames))]
		u := User{
			Name:      first + " " + last,
			Email:     fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
			Role:      RoleUser,
			Status:    StatusActive,
			CreatedAt: now.Add(-time.Duration(rng.Int64N(int64(365 * 24 * time.Hour)))).UTC(),
		}
		if rng.IntN(5) == 0 {
			u.Role = RoleAdmin
		}
		if rng.IntN(4) == 0 {
			u.Status = StatusInactive
		}
		out = append(out, u)
	}
	return out
}

// Seed creates n demo users in store and returns them with their ids.
func Seed(ctx context.Context, store Store, n int, rng *rand.Rand) ([]User, error) {
	created := make([]User, 0, n)
	for _, u := range Generate(n, rng, time.Now()) {
		saved, err := store.Create(ctx, u)
		if err != nil {
			return created, fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
		created = append(created, saved)
	}
	return created, nil
}
