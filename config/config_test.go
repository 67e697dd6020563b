package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConfigInit(t *testing.T) {

	conf, err := NewConfig()
	if err != nil {
		t.Error(err)
	}

	assert.NotEmpty(t, conf.Backend.Url)
	assert.NotZero(t, conf.App.Port)
	t.Logf("%+v", conf)
}

func TestLogLevel(t *testing.T) {

	conf, err := NewConfig()
	assert.NoError(t, err)

	level, err := conf.LogLevel()
	assert.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	conf.Log = "not-a-level"
	level, err = conf.LogLevel()
	assert.Error(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestPollInterval(t *testing.T) {

	conf, err := NewConfig()
	assert.NoError(t, err)
	assert.Equal(t, 10*time.Second, conf.PollInterval())

	conf.Backend.PollInterval = "30s"
	assert.Equal(t, 30*time.Second, conf.PollInterval())

	// junk falls back to the default
	conf.Backend.PollInterval = "soon"
	assert.Equal(t, 10*time.Second, conf.PollInterval())
}
