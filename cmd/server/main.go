package main

import (
	"agentviz/internal/server"
	"agentviz/internal/util"
	"agentviz/pkg/logger"
	"agentviz/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleBackend(console.ConsoleBackendParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
