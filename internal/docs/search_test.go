package docs

import (
	"fmt"
	"testing"

	"github.com/OceanicJS/Bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNameSearcher(t *testing.T, names ...string) *Searcher[string] {
	t.Helper()
	s, err := NewNameSearcher(names)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSearcher_Ranking(t *testing.T) {
	s := newNameSearcher(t, "TextChannel", "GuildChannel", "Member", "Guild", "AnonymousGuild", "Client")

	got, err := s.Search("guild")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Guild", got[0])
	assert.Equal(t, "GuildChannel", got[1])
	assert.Contains(t, got, "AnonymousGuild")
	assert.NotContains(t, got, "Client")
}

func TestSearcher_Subsequence(t *testing.T) {
	s := newNameSearcher(t, "TextChannel", "Member", "Client")

	got, err := s.Search("txch")
	require.NoError(t, err)
	assert.Equal(t, []string{"TextChannel"}, got)
}

func TestSearcher_EmptyQueryKeepsOrder(t *testing.T) {
	names := []string{"b", "a", "c"}
	s := newNameSearcher(t, names...)

	got, err := s.Search("  ")
	require.NoError(t, err)
	assert.Equal(t, names, got)
}

func TestSearcher_SpecialCharacters(t *testing.T) {
	s := newNameSearcher(t, "1.9.0", "1.10.0", "1.3.0")

	got, err := s.Search("1.9")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "1.9.0", got[0])
}

func TestSearcher_FieldPaths(t *testing.T) {
	classes := []Class{
		{Name: "Client", Properties: []Property{{Name: "guilds"}}},
		{Name: "Member", Methods: []Method{{Name: "ban"}}},
		{Name: "Role"},
	}
	s, err := NewSearcher(classes,
		Field[Class]{Path: domain.FieldName, Values: func(c Class) []string { return []string{c.Name} }},
		Field[Class]{Path: domain.FieldPropertyName, Values: func(c Class) []string {
			names := make([]string, 0, len(c.Properties))
			for _, p := range c.Properties {
				names = append(names, p.Name)
			}
			return names
		}},
	)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, err := s.Search("guilds")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Client", got[0].Name)

	got, err = s.Search("ban")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchChoices_Caps(t *testing.T) {
	names := make([]string, 30)
	for i := range names {
		names[i] = fmt.Sprintf("Guild%02d", i)
	}
	s := newNameSearcher(t, names...)

	choices, err := SearchChoices(s, "guild", domain.NewChoice)
	require.NoError(t, err)
	require.Len(t, choices, domain.MaxChoices)
	assert.Equal(t, domain.Choice{Name: "(And 6 More)", Value: domain.MoreChoicesValue}, choices[24])
	assert.Equal(t, "Guild00", choices[0].Value)
}

func TestNewSearcher_RequiresField(t *testing.T) {
	_, err := NewSearcher([]string{"a"})
	assert.Error(t, err)
}
