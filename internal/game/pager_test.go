package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagerVisitsEveryMemberOnce(t *testing.T) {
	dir := &fakeDirectory{members: makeMembers(25, "r1")}
	pager := NewPager(dir, "g1", 10)

	seen := make(map[string]int)
	err := pager.Each(context.Background(), func(m Member) error {
		seen[m.ID]++
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, seen, 25)
	for id, n := range seen {
		assert.Equal(t, 1, n, "member %s visited %d times", id, n)
	}
	// ceil(25/10) pages: two full, one short terminating page.
	assert.Equal(t, 3, dir.fetchCount())
}

func TestPagerEmptyDirectory(t *testing.T) {
	dir := &fakeDirectory{}
	pager := NewPager(dir, "g1", 10)

	visited := 0
	err := pager.Each(context.Background(), func(m Member) error {
		visited++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, visited)
	assert.Equal(t, 1, dir.fetchCount())
}

func TestPagerExactMultipleOfPageSize(t *testing.T) {
	dir := &fakeDirectory{members: makeMembers(20, "r1")}
	pager := NewPager(dir, "g1", 10)

	seen := 0
	err := pager.Each(context.Background(), func(m Member) error {
		seen++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 20, seen)
}

func TestPagerIsOneShot(t *testing.T) {
	dir := &fakeDirectory{members: makeMembers(5, "r1")}
	pager := NewPager(dir, "g1", 10)

	page, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, page, 5)

	page, err = pager.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, page, "an exhausted pager stays exhausted")
}

func TestPagerPropagatesDirectoryError(t *testing.T) {
	dir := &fakeDirectory{err: assert.AnError}
	pager := NewPager(dir, "g1", 10)

	err := pager.Each(context.Background(), func(m Member) error { return nil })
	assert.ErrorIs(t, err, assert.AnError)
}
