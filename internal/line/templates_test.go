package line

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileCardFallbacks(t *testing.T) {
	t.Parallel()

	msg := ProfileCard(Profile{}, false, "5 มิถุนายน 2567")
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	s := string(raw)
	assert.Equal(t, "flex", msg.Type)
	assert.Equal(t, welcomeAltText, msg.AltText)
	assert.Contains(t, s, DefaultProfilePicture)
	assert.Contains(t, s, UnknownDisplayName)
	assert.Contains(t, s, "5 มิถุนายน 2567")
}

func TestProfileCardUnblocked(t *testing.T) {
	t.Parallel()

	msg := ProfileCard(Profile{DisplayName: "Somchai", PictureURL: "https://p/1.png"}, true, "d")
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	assert.Equal(t, welcomeBackText, msg.AltText)
	assert.Contains(t, string(raw), "Somchai")
	assert.NotContains(t, string(raw), DefaultProfilePicture)
}

func TestGroupWelcomeMentions(t *testing.T) {
	t.Parallel()

	msg := GroupWelcome("U9")
	assert.Equal(t, "textV2", msg.Type)
	assert.Equal(t, MentionUser("U9"), msg.Substitution["user1"])
	assert.Equal(t, "all", msg.Substitution["everyone"].Mentionee.Type)
	assert.Contains(t, msg.Text, "{user1}")
	assert.Contains(t, msg.Text, "{everyone}")
}

func TestDefaultQuickReplyItems(t *testing.T) {
	t.Parallel()

	items := DefaultQuickReply().Items
	require.Len(t, items, 6)
	kinds := make([]string, 0, len(items))
	for _, it := range items {
		kinds = append(kinds, it.Action.Type)
	}
	assert.Equal(t, []string{"message", "message", "cameraRoll", "location", "camera", "message"}, kinds)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "สั้น", Truncate("สั้น"))
	long := strings.Repeat("ก", 6000)
	out := []rune(Truncate(long))
	assert.Len(t, out, 5000)
	assert.Equal(t, '…', out[len(out)-1])
}
