package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilnova/chat-ai/backend/internal/analysis/language"
)

func TestSeedOrderAndProfiles(t *testing.T) {
	members := Seed()
	keys := make([]string, 0, len(members))
	for _, m := range members {
		keys = append(keys, m.Key)
		assert.NotEmpty(t, m.Profile(language.English).Name, m.Key)
		assert.NotEmpty(t, m.Profile(language.Arabic).Name, m.Key)
		assert.NotEmpty(t, m.AllKeywords(), m.Key)
	}
	assert.Equal(t, []string{KeyFounder, KeyAliBilal, KeyNoorKanaan, KeyArzuMateen, KeyTeam}, keys)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(Seed())

	founder, ok := store.FindByKey(KeyFounder)
	require.True(t, ok)
	assert.Equal(t, "Hayder Naseem Al-Samarrai", founder.Profile(language.English).Name)

	_, ok = store.FindByKey("missing")
	assert.False(t, ok)

	list := store.List()
	list[0] = Member{}
	again, _ := store.FindByKey(KeyFounder)
	assert.Equal(t, KeyFounder, again.Key)
}

func TestProfileFallsBackToEnglish(t *testing.T) {
	m := Member{Profiles: map[language.Locale]Profile{language.English: {Name: "Only English"}}}
	assert.Equal(t, "Only English", m.Profile(language.Arabic).Name)
}
