package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/tordle/internal/dictionary"
	"github.com/robalobadob/tordle/internal/words"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"USER", "TORDLE_PLAYER", "PORT", "TORDLE_PORT", "TORDLE_DB", "DB_PATH", "TORDLE_ATTEMPTS"} {
		t.Setenv(k, "")
	}
	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, words.DefaultURL, c.WordsURL)
	assert.Equal(t, dictionary.DefaultBaseURL, c.DictionaryURL)
	assert.Equal(t, 5, c.WordLength)
	assert.Equal(t, 6, c.Attempts)
	assert.EqualValues(t, 5, c.RequestAttempts)
	assert.Equal(t, 500*time.Millisecond, c.RetryDelay)
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, "player", c.Player)
	assert.Equal(t, "", c.DBPath)
	assert.False(t, c.Daily)
}

func TestEnvAndFlags(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("TORDLE_ATTEMPTS", "4")
	t.Setenv("TORDLE_PLAYER", "ana")

	c, err := Load([]string{"--attempts", "8", "--daily", "--db", "/tmp/x.db", "extra"})
	require.NoError(t, err)
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, "from-env", c.JWTSecret)
	assert.Equal(t, 8, c.Attempts, "flag beats env")
	assert.True(t, c.Daily)
	assert.Equal(t, "/tmp/x.db", c.DBPath)
	assert.Equal(t, "ana", c.Player)
	assert.Equal(t, []string{"extra"}, c.Args)
}

func TestOffline(t *testing.T) {
	c, err := Load([]string{"--offline"})
	require.NoError(t, err)
	assert.Equal(t, "", c.WordsURL)
	assert.True(t, c.NoDefinition)
}

func TestValidate(t *testing.T) {
	_, err := Load([]string{"--length", "0"})
	assert.Error(t, err)
	_, err = Load([]string{"--attempts", "-1"})
	assert.Error(t, err)
	_, err = Load([]string{"--no-such-flag"})
	assert.Error(t, err)
}
