package app

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/cockpit_info/internal/config"
	"github.com/relabs-tech/cockpit_info/internal/imu"
	"github.com/relabs-tech/cockpit_info/internal/sensors"
)

// openIMUSource picks the sample source named by IMU_SOURCE.
func openIMUSource(cfg *config.Config) (imu.Source, string, error) {
	switch cfg.IMUSource {
	case "mock":
		return imu.NewMockSource(), "mock", nil
	case "mpu9250":
		src, err := sensors.NewMPU9250Source(cfg.IMUSPIDevice, cfg.IMUCSPin)
		if err != nil {
			return nil, "", err
		}
		return src, "mpu9250", nil
	default:
		return nil, "", fmt.Errorf("unknown IMU_SOURCE %q", cfg.IMUSource)
	}
}

// RunIMUProducer reads the configured IMU every IMU_SAMPLE_INTERVAL and
// publishes accelerometer and magnetometer samples to MQTT.
func RunIMUProducer() error {
	cfg := config.Get()

	src, name, err := openIMUSource(cfg)
	if err != nil {
		return err
	}
	log.Printf("imu: using %s source", name)

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDIMU)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect error: %w", token.Error())
	}
	defer client.Disconnect(250)

	log.Println("imu: connected to MQTT, starting publish loop")

	ticker := time.NewTicker(time.Duration(cfg.IMUSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for t := range ticker.C {
		r, err := src.Next()
		if err != nil {
			log.Printf("imu: read error: %v", err)
			continue
		}
		if err := publishReading(client, cfg, name, r, t); err != nil {
			log.Printf("imu: %v", err)
		}
	}
	return nil
}

// publishReading sends one reading. Samples are a stream, not state, so
// they are not retained.
func publishReading(client publisher, cfg *config.Config, source string, r imu.Reading, t time.Time) error {
	payload, err := json.Marshal(imu.NewSample(source, r.Accel, t))
	if err != nil {
		return fmt.Errorf("accel marshal: %w", err)
	}
	if token := client.Publish(cfg.TopicAccel, 0, false, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", cfg.TopicAccel, token.Error())
	}

	if !r.HasMag {
		return nil
	}
	payload, err = json.Marshal(imu.NewSample(source, r.Mag, t))
	if err != nil {
		return fmt.Errorf("mag marshal: %w", err)
	}
	if token := client.Publish(cfg.TopicMag, 0, false, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", cfg.TopicMag, token.Error())
	}
	return nil
}
