package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/relabs-tech/cockpit_info/internal/gate"
	"github.com/relabs-tech/cockpit_info/internal/pipeline"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDCockpit string
	MQTTClientIDIMU     string
	MQTTClientIDGPS     string

	// Topics
	TopicAccel         string
	TopicMag           string
	TopicGPS           string
	TopicDisplayPrefix string // display text published under <prefix>/<channel>
	TopicLogControl    string // toggles on <topic>/<channel>, state on <topic>/<channel>/state

	// Log channels
	LogDir        string
	LogAccFile    string
	LogLocFile    string
	LogOriFile    string
	LogTimeFormat string
	LogAccEnabled bool
	LogLocEnabled bool
	LogOriEnabled bool

	// Pipeline
	GateIntervalMS int
	QueueSize      int

	// IMU
	IMUSource         string // "mock" or "mpu9250"
	IMUSPIDevice      string
	IMUCSPin          string
	IMUSampleInterval int // milliseconds

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// Web Server
	WebServerPort int

	// Display
	DisplayEnabled        bool
	DisplayI2CBus         string
	DisplayContent        string // "motion" or "location"
	DisplayUpdateInterval int    // milliseconds
}

// Package-level singleton. InitGlobal sets it once; Get reads it under a
// read lock.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a Config with every optional value filled in. Load
// starts from Default, so a config file only needs the keys it changes.
func Default() *Config {
	return &Config{
		MQTTBroker:          "tcp://localhost:1883",
		MQTTClientIDCockpit: "cockpit-info",
		MQTTClientIDIMU:     "cockpit-imu-producer",
		MQTTClientIDGPS:     "cockpit-gps-producer",

		TopicAccel:         "cockpit/imu/accel",
		TopicMag:           "cockpit/imu/mag",
		TopicGPS:           "cockpit/gps",
		TopicDisplayPrefix: "cockpit/display",
		TopicLogControl:    "cockpit/log",

		LogDir:        "CockpitInfo",
		LogAccFile:    "acc.log",
		LogLocFile:    "loc.log",
		LogOriFile:    "ori.log",
		LogTimeFormat: pipeline.DefaultTimeFormat,

		GateIntervalMS: int(gate.DefaultInterval / time.Millisecond),
		QueueSize:      pipeline.DefaultQueueSize,

		IMUSource:         "mock",
		IMUSPIDevice:      "/dev/spidev0.0",
		IMUCSPin:          "8",
		IMUSampleInterval: 100,

		GPSSerialPort: "/dev/serial0",
		GPSBaudRate:   9600,

		WebServerPort: 8080,

		DisplayI2CBus:         "",
		DisplayContent:        "motion",
		DisplayUpdateInterval: 500,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_COCKPIT":
		c.MQTTClientIDCockpit = value
	case "MQTT_CLIENT_ID_IMU":
		c.MQTTClientIDIMU = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value

	// Topics
	case "TOPIC_ACCEL":
		c.TopicAccel = value
	case "TOPIC_MAG":
		c.TopicMag = value
	case "TOPIC_GPS":
		c.TopicGPS = value
	case "TOPIC_DISPLAY_PREFIX":
		c.TopicDisplayPrefix = strings.TrimSuffix(value, "/")
	case "TOPIC_LOG_CONTROL":
		c.TopicLogControl = strings.TrimSuffix(value, "/")

	// Log channels
	case "LOG_DIR":
		c.LogDir = value
	case "LOG_ACC_FILE":
		c.LogAccFile = value
	case "LOG_LOC_FILE":
		c.LogLocFile = value
	case "LOG_ORI_FILE":
		c.LogOriFile = value
	case "LOG_TIME_FORMAT":
		c.LogTimeFormat = value
	case "LOG_ACC_ENABLED":
		return parseBool(key, value, &c.LogAccEnabled)
	case "LOG_LOC_ENABLED":
		return parseBool(key, value, &c.LogLocEnabled)
	case "LOG_ORI_ENABLED":
		return parseBool(key, value, &c.LogOriEnabled)

	// Pipeline
	case "GATE_INTERVAL_MS":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GATE_INTERVAL_MS %q: %w", value, err)
		}
		if interval < 0 {
			return fmt.Errorf("GATE_INTERVAL_MS must be >= 0, got %d", interval)
		}
		c.GateIntervalMS = interval
	case "QUEUE_SIZE":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid QUEUE_SIZE %q: %w", value, err)
		}
		if size < 1 {
			return fmt.Errorf("QUEUE_SIZE must be >= 1, got %d", size)
		}
		c.QueueSize = size

	// IMU
	case "IMU_SOURCE":
		if value != "mock" && value != "mpu9250" {
			return fmt.Errorf("IMU_SOURCE must be mock or mpu9250, got %q", value)
		}
		c.IMUSource = value
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value
	case "IMU_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.IMUSampleInterval = interval

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_ENABLED":
		return parseBool(key, value, &c.DisplayEnabled)
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_CONTENT":
		if value != "motion" && value != "location" {
			return fmt.Errorf("DISPLAY_CONTENT must be motion or location, got %q", value)
		}
		c.DisplayContent = value
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parseBool(key, value string, dst *bool) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = b
	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicAccel == "" || c.TopicMag == "" || c.TopicGPS == "" {
		return fmt.Errorf("TOPIC_ACCEL, TOPIC_MAG and TOPIC_GPS are required")
	}
	if c.LogAccFile == "" || c.LogLocFile == "" || c.LogOriFile == "" {
		return fmt.Errorf("LOG_ACC_FILE, LOG_LOC_FILE and LOG_ORI_FILE are required")
	}
	if c.LogTimeFormat == "" {
		return fmt.Errorf("LOG_TIME_FORMAT is required")
	}
	if c.IMUSampleInterval <= 0 {
		return fmt.Errorf("IMU_SAMPLE_INTERVAL must be > 0")
	}
	if c.GPSBaudRate <= 0 {
		return fmt.Errorf("GPS_BAUD_RATE must be > 0")
	}
	if c.DisplayEnabled && c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be > 0 when DISPLAY_ENABLED")
	}
	return nil
}

// LogPath joins LogDir and a channel's file name. Absolute file names are
// used as is.
func (c *Config) LogPath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.LogDir, file)
}

// GateInterval returns GATE_INTERVAL_MS as a duration.
func (c *Config) GateInterval() time.Duration {
	return time.Duration(c.GateIntervalMS) * time.Millisecond
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
