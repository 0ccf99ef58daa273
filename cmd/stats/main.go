package main

import (
	stdLog "log"

	"github.com/joho/godotenv"

	"github.com/Astemirdum/library-circulation/stats/app"
	"github.com/Astemirdum/library-circulation/stats/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file, reading the environment only")
	}
	if err := app.Run(config.NewConfig()); err != nil {
		stdLog.Fatalf("stats: %v", err)
	}
}
