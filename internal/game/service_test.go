package game

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/store"
)

// fakeDirectory serves pages out of a fixed member slice, using the same
// after-ID cursor convention as the real directory.
type fakeDirectory struct {
	mu      sync.Mutex
	members []Member
	fetches int
	err     error
}

func (d *fakeDirectory) GuildMembers(ctx context.Context, guildID, afterID string, limit int) ([]Member, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fetches++
	if d.err != nil {
		return nil, d.err
	}

	start := 0
	if afterID != "" {
		for i, m := range d.members {
			if m.ID == afterID {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(d.members) {
		end = len(d.members)
	}
	if start >= end {
		return nil, nil
	}
	page := make([]Member, end-start)
	copy(page, d.members[start:end])
	return page, nil
}

func (d *fakeDirectory) fetchCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fetches
}

// fakeNotifier records posted summaries. If blockUntil is set, PostSummary
// signals started and then waits, letting tests hold a rotation mid-step.
type fakeNotifier struct {
	mu         sync.Mutex
	posts      []*Summary
	channels   []string
	err        error
	started    chan struct{}
	blockUntil chan struct{}
}

func (n *fakeNotifier) PostSummary(ctx context.Context, channelID string, sum *Summary) error {
	if n.started != nil {
		close(n.started)
		n.started = nil
	}
	if n.blockUntil != nil {
		<-n.blockUntil
	}
	if n.err != nil {
		return n.err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.posts = append(n.posts, sum)
	n.channels = append(n.channels, channelID)
	return nil
}

func (n *fakeNotifier) postCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.posts)
}

func (n *fakeNotifier) lastPost() *Summary {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.posts) == 0 {
		return nil
	}
	return n.posts[len(n.posts)-1]
}

// memberWithRole builds a tracked-role member for directory fixtures.
func memberWithRole(id, name, roleID string) Member {
	return Member{ID: id, DisplayName: name, RoleIDs: []string{roleID}}
}

func newTestService(t *testing.T, notifier *fakeNotifier, dir *fakeDirectory, pageSize int) (*Service, *store.Store) {
	t.Helper()
	tmp := t.TempDir()
	st := store.New(filepath.Join(tmp, "fishing_data.json"), filepath.Join(tmp, "backups"))
	if notifier == nil {
		notifier = &fakeNotifier{}
	}
	if dir == nil {
		dir = &fakeDirectory{}
	}
	return NewService(st, notifier, dir, pageSize), st
}

// day returns noon UTC n days after a fixed base date, so tests get
// stable, strictly increasing calendar dates.
func day(n int) time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func makeMembers(n int, roleID string) []Member {
	members := make([]Member, n)
	for i := range members {
		members[i] = memberWithRole(fmt.Sprintf("%03d", i+100), fmt.Sprintf("member-%d", i), roleID)
	}
	return members
}
