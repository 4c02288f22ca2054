package bot

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/game"
	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/store"
)

func TestReminderContentPingMode(t *testing.T) {
	sum := &game.Summary{
		ReminderMode: store.ReminderPing,
		Inactive: []game.InactiveMember{
			{UserID: "100", DisplayName: "Maya"},
			{UserID: "101", DisplayName: "Remy"},
		},
	}

	content := reminderContent(sum)
	assert.Contains(t, content, "<@100>")
	assert.Contains(t, content, "<@101>")
}

func TestReminderContentNicknameMode(t *testing.T) {
	sum := &game.Summary{
		ReminderMode: store.ReminderNickname,
		Inactive: []game.InactiveMember{
			{UserID: "100", DisplayName: "Maya"},
		},
	}

	content := reminderContent(sum)
	assert.Contains(t, content, "Maya")
	assert.NotContains(t, content, "<@100>")
}

func TestReminderContentEmpty(t *testing.T) {
	assert.Empty(t, reminderContent(&game.Summary{ReminderMode: store.ReminderPing}))
}

func TestReminderContentStaysUnderMessageLimit(t *testing.T) {
	sum := &game.Summary{ReminderMode: store.ReminderPing}
	for i := 0; i < 300; i++ {
		sum.Inactive = append(sum.Inactive, game.InactiveMember{
			UserID: fmt.Sprintf("10000000000000%04d", i),
		})
	}

	content := reminderContent(sum)
	assert.Less(t, len(content), 2000, "Discord rejects messages over 2000 chars")
	assert.Contains(t, content, "others")
}

func TestTruncateListShortListUnchanged(t *testing.T) {
	out := truncateList("head\n", []string{"a", "b", "c"}, ", ")
	assert.Equal(t, "head\na, b, c", out)
	assert.False(t, strings.Contains(out, "others"))
}

func TestTruncateListClampsOnRuneBoundary(t *testing.T) {
	// One oversized non-ASCII name pushes the cut point past the limit
	// with no separator in range; the cut must not split a rune.
	names := []string{"x" + strings.Repeat("🐟", 600), "Remy"}
	out := truncateList("head\n", names, ", ")

	assert.True(t, utf8.ValidString(out), "truncation must not produce invalid UTF-8")
	assert.Less(t, len(out), 2000)
	assert.Contains(t, out, "others")
}
