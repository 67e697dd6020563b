package main

import (
	"coinboard"
	"coinboard/app"
	"coinboard/backend"
	"coinboard/config"
	"coinboard/internal/session"

	"github.com/rs/zerolog"
)

func main() {

	conf, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	level, err := conf.LogLevel()
	if err != nil {
		panic(err)
	}
	zerolog.SetGlobalLevel(level)

	client, err := backend.NewClient(conf.Backend.Url)
	if err != nil {
		panic(err)
	}
	creds := session.NewStore(conf.SessionPath(), conf.Session.Passkey)

	engine := coinboard.NewSession(coinboard.SessionConfig{
		Backend:      client,
		Credentials:  creds,
		PollInterval: conf.PollInterval(),
	})
	engine.Start()
	defer engine.Close()

	if err := app.Run(conf.App.Port, engine); err != nil {
		panic(err)
	}
}
