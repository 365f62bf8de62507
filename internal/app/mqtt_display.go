package app

import (
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/cockpit_info/internal/logchan"
	"github.com/relabs-tech/cockpit_info/internal/pipeline"
)

const publishTimeout = time.Second

// publisher is the part of mqtt.Client the producers and displays need.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// mqttDisplay republishes every displayed reading, retained, so dashboards
// that connect later see the latest values.
type mqttDisplay struct {
	client        publisher
	displayPrefix string
	logPrefix     string
}

func newMQTTDisplay(client publisher, displayPrefix, logPrefix string) *mqttDisplay {
	return &mqttDisplay{client: client, displayPrefix: displayPrefix, logPrefix: logPrefix}
}

func (d *mqttDisplay) Show(ch pipeline.Channel, text string) {
	d.publish(d.displayPrefix+"/"+ch.String(), text)
}

// LogState publishes the toggle label ("Logging" / "Not Logging") below
// the control topic, where the toggle subscription does not see it.
func (d *mqttDisplay) LogState(ch pipeline.Channel, state logchan.State) {
	d.publish(d.logPrefix+"/"+ch.String()+"/state", state.String())
}

// publish runs on the pipeline goroutine, so it never waits long.
func (d *mqttDisplay) publish(topic, payload string) {
	token := d.client.Publish(topic, 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		log.Printf("mqtt: publish to %s timed out", topic)
		return
	}
	if err := token.Error(); err != nil {
		log.Printf("mqtt: publish to %s error: %v", topic, err)
	}
}
