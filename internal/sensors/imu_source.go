// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/cockpit_info/internal/imu"
	"github.com/relabs-tech/cockpit_info/internal/orientation"
)

// accelLSBPerG is the MPU9250 accelerometer sensitivity at its power-on
// full scale of ±2g.
const accelLSBPerG = 16384.0

const standardGravity = 9.80665

type mpuSource struct {
	name string
	imu  *mpu9250.MPU9250
}

// NewMPU9250Source initializes an MPU9250 over SPI and returns an
// imu.Source that reports acceleration in m/s². The MPU9250 driver does
// not expose the magnetometer, so readings carry HasMag=false.
func NewMPU9250Source(spiDev, csPin string) (imu.Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("mpu9250: periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("mpu9250: CS pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("mpu9250: SPI transport (%s): %w", spiDev, err)
	}

	dev, err := mpu9250.New(*tr)
	if err != nil {
		return nil, fmt.Errorf("mpu9250: device creation: %w", err)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("mpu9250: initialization: %w", err)
	}

	// Calibration only removes the static bias; a failure leaves raw data
	// usable.
	if err := dev.Calibrate(); err != nil {
		log.Printf("mpu9250: WARNING: calibration failed: %v", err)
	} else {
		log.Printf("mpu9250: calibration complete")
	}

	return &mpuSource{name: "mpu9250", imu: dev}, nil
}

// Next reads one accelerometer sample.
func (s *mpuSource) Next() (imu.Reading, error) {
	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return imu.Reading{}, fmt.Errorf("%s accel X: %w", s.name, err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return imu.Reading{}, fmt.Errorf("%s accel Y: %w", s.name, err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return imu.Reading{}, fmt.Errorf("%s accel Z: %w", s.name, err)
	}

	return imu.Reading{Accel: countsToMS2(ax, ay, az)}, nil
}

// countsToMS2 converts raw ±2g accelerometer counts into m/s².
func countsToMS2(ax, ay, az int16) orientation.Vector3 {
	k := standardGravity / accelLSBPerG
	return orientation.Vector3{
		X: float64(ax) * k,
		Y: float64(ay) * k,
		Z: float64(az) * k,
	}
}
