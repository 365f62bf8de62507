package app

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/cockpit_info/internal/config"
	"github.com/relabs-tech/cockpit_info/internal/gps"
)

// RunGPSProducer opens the GPS serial port, parses NMEA sentences, and
// publishes each completed fix as retained JSON on TOPIC_GPS. Retaining
// it gives a freshly started cockpit the last known location.
func RunGPSProducer() error {
	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDGPS)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("gps: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Open GPS serial port ----
	serialOpts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("open %s: %w", serialOpts.PortName, err)
	}
	defer port.Close()
	log.Printf("gps: serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	// ---- 3) Sentences in, fixes out ----
	return pumpNMEA(port, &gps.Tracker{}, func(fix gps.Fix) error {
		return publishFix(client, cfg.TopicGPS, fix)
	})
}

func publishFix(client publisher, topic string, fix gps.Fix) error {
	payload, err := json.Marshal(fix)
	if err != nil {
		return fmt.Errorf("fix marshal: %w", err)
	}
	token := client.Publish(topic, 0, true, payload)
	token.Wait()
	return token.Error()
}

// pumpNMEA feeds r line by line into tr and hands every completed fix to
// publish. Garbage and publish failures are logged and skipped; it returns
// only when r fails or ends.
func pumpNMEA(r io.Reader, tr *gps.Tracker, publish func(gps.Fix) error) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fix, ok, err := tr.Feed(scanner.Text())
		if err != nil {
			// Receivers emit partial sentences at power-up; only report
			// lines that looked like NMEA.
			if !errors.Is(err, gps.ErrNotNMEA) {
				log.Printf("gps: %v", err)
			}
			continue
		}
		if !ok {
			continue
		}
		if err := publish(fix); err != nil {
			log.Printf("gps: publish error: %v", err)
			continue
		}
		log.Printf("gps: published fix %.5f,%.5f alt %.1f m", fix.Latitude, fix.Longitude, fix.Altitude)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("gps read: %w", err)
	}
	return nil
}
