package cli

import (
	"testing"

	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/alexanderramin/orbit/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeValue(t *testing.T) {
	m := domain.ModeLaunchable
	v := newModeValue(&m)

	require.NoError(t, v.Set(" Physical "))
	assert.Equal(t, domain.ModePhysical, m)
	assert.Equal(t, "physical", v.String())

	err := v.Set("digital")
	assert.ErrorContains(t, err, "launchable or physical")
	assert.Equal(t, domain.ModePhysical, m, "a bad value keeps the old one")
}

func TestLinkTypeValue(t *testing.T) {
	var lt domain.LinkType
	v := newLinkTypeValue(&lt)
	assert.Empty(t, v.String())

	require.NoError(t, v.Set("VSCode"))
	assert.Equal(t, domain.LinkVSCode, lt)

	err := v.Set("ftp")
	assert.ErrorContains(t, err, "web, obsidian, vscode, cursor, notion, custom")
}

func TestStrategyValue(t *testing.T) {
	var st layout.Strategy
	v := newStrategyValue(&st)
	assert.Empty(t, v.String())

	require.NoError(t, v.Set("SLOTS"))
	assert.Equal(t, "slots", v.String())

	assert.Error(t, v.Set("spiral"))
	assert.Equal(t, "slots", st.Name())
}

func TestAppStrategyFallsBackToRing(t *testing.T) {
	app := &App{}
	assert.Equal(t, "ring", app.strategy().Name())

	app.Config.Layout = "slots"
	assert.Equal(t, "slots", app.strategy().Name())
	assert.False(t, app.interactive())
}
