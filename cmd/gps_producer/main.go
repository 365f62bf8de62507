package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/cockpit_info/internal/app"
	"github.com/relabs-tech/cockpit_info/internal/config"
)

func main() {
	configPath := flag.String("config", "./cockpit_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting cockpit-info GPS producer (NMEA → MQTT)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunGPSProducer(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
