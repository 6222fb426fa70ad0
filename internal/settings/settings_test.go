package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFailsClosed(t *testing.T) {
	s := Default()
	assert.False(t, s.DomainEnabled)
	assert.Equal(t, 3, s.PressCount)
	assert.Equal(t, 600, s.Delay)
	assert.True(t, s.ShowFeedback)
	assert.Equal(t, ModeNormal, s.Mode)
}

func TestNormalizeFillsInvalidFields(t *testing.T) {
	s := Settings{PressCount: 0, Delay: -5, Mode: "turbo"}
	Normalize(&s)
	assert.Equal(t, DefaultPressCount, s.PressCount)
	assert.Equal(t, DefaultDelayMS, s.Delay)
	assert.Equal(t, ModeNormal, s.Mode)
}

func TestNormalizeDropsUnknownListMode(t *testing.T) {
	s := Default()
	s.Domains = &DomainRules{Mode: "greylist"}
	Normalize(&s)
	assert.Nil(t, s.Domains)
}

func TestMergePartialPayloadKeepsOtherFields(t *testing.T) {
	cur := Default()
	cur.DomainEnabled = true
	cur.PressCount = 5

	out := Merge(cur, []byte(`{"delay": 250}`))
	assert.Equal(t, 250, out.Delay)
	assert.Equal(t, 5, out.PressCount)
	assert.True(t, out.DomainEnabled)
	assert.True(t, out.ShowFeedback)
}

func TestMergeAliases(t *testing.T) {
	out := Merge(Default(), []byte(`{"timeWindow": 2000, "visualFeedback": false}`))
	assert.Equal(t, 2000, out.Delay)
	assert.False(t, out.ShowFeedback)

	// Canonical keys win over aliases when both are present.
	out = Merge(Default(), []byte(`{"delay": 300, "timeWindow": 2000}`))
	assert.Equal(t, 300, out.Delay)
}

func TestMergeExplicitDomainEnabledWins(t *testing.T) {
	cur := Default()
	out := Merge(cur, []byte(`{"domainEnabled": true}`))
	assert.True(t, out.DomainEnabled)

	out = Merge(out, []byte(`{"pressCount": 4}`))
	assert.True(t, out.DomainEnabled, "untouched fields survive later partial merges")
}

func TestMergeDomains(t *testing.T) {
	payload := []byte(`{"domains": {"mode": "blacklist", "blacklist": ["example.com", "spam.org"]}}`)
	out := Merge(Default(), payload)
	require.NotNil(t, out.Domains)
	assert.Equal(t, ListBlacklist, out.Domains.Mode)
	assert.Equal(t, []string{"example.com", "spam.org"}, out.Domains.Blacklist)
}

func TestMergeMalformedPayloadIsNoop(t *testing.T) {
	cur := Default()
	cur.PressCount = 7
	out := Merge(cur, []byte(`{"pressCount": `))
	assert.Equal(t, 7, out.PressCount)
}

func TestMergeInvalidValuesNormalized(t *testing.T) {
	out := Merge(Default(), []byte(`{"pressCount": -2, "mode": "bogus"}`))
	assert.Equal(t, DefaultPressCount, out.PressCount)
	assert.Equal(t, ModeNormal, out.Mode)
}

func TestParseFullBlob(t *testing.T) {
	blob := []byte(`{
		"enabled": true,
		"pressCount": 4,
		"delay": 400,
		"showFeedback": false,
		"mode": "alwaysLineBreak",
		"isPremium": true
	}`)
	s := Parse(blob)
	assert.True(t, s.Enabled)
	assert.Equal(t, 4, s.PressCount)
	assert.Equal(t, 400, s.Delay)
	assert.False(t, s.ShowFeedback)
	assert.Equal(t, ModeAlwaysLineBreak, s.Mode)
	assert.True(t, s.IsPremium)
	assert.False(t, s.DomainEnabled, "resolution is per page, never part of the stored blob")
}

func TestWindow(t *testing.T) {
	s := Default()
	s.Delay = 250
	assert.Equal(t, 250*time.Millisecond, s.Window())
}
