package game

import "context"

// Pager walks an external member directory that only returns bounded
// pages. It is a lazy, one-shot sequence: each fetch uses the last member
// of the previous page as the cursor, and a page shorter than the limit
// ends the walk. The directory may change mid-scan; a member removed
// while paging may or may not appear, which is accepted.
type Pager struct {
	dir     MemberDirectory
	guildID string
	limit   int
	after   string
	done    bool
}

// NewPager starts a fresh walk over guildID's members with the given
// maximum page size.
func NewPager(dir MemberDirectory, guildID string, limit int) *Pager {
	return &Pager{dir: dir, guildID: guildID, limit: limit}
}

// Next fetches the next page. It returns nil once the sequence is
// exhausted. A pager cannot be restarted; create a new one to re-scan.
func (p *Pager) Next(ctx context.Context) ([]Member, error) {
	if p.done {
		return nil, nil
	}
	page, err := p.dir.GuildMembers(ctx, p.guildID, p.after, p.limit)
	if err != nil {
		return nil, err
	}
	if len(page) < p.limit {
		p.done = true
	}
	if len(page) == 0 {
		return nil, nil
	}
	p.after = page[len(page)-1].ID
	return page, nil
}

// Each streams every remaining member through fn, stopping on the first
// error from the directory or from fn.
func (p *Pager) Each(ctx context.Context, fn func(Member) error) error {
	for {
		page, err := p.Next(ctx)
		if err != nil {
			return err
		}
		if page == nil {
			return nil
		}
		for _, m := range page {
			if err := fn(m); err != nil {
				return err
			}
		}
	}
}
