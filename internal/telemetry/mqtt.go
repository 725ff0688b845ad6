package telemetry

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// MQTTPublisher publishes a retained JSON Sample to
// <topic_prefix>/status once per tick. Publish-only: no subscriptions, no
// inbound command topic, so it never becomes a remote control surface.
type MQTTPublisher struct {
	*sink
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher connects to broker and returns a ready-to-use publisher.
func NewMQTTPublisher(broker, topicPrefix string, log *zap.SugaredLogger) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(fmt.Sprintf("wittygo-%d", time.Now().UnixNano()))
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if token.Error() != nil {
		return nil, fmt.Errorf("telemetry: connecting to mqtt broker %s: %w", broker, token.Error())
	}

	p := &MQTTPublisher{client: client, topic: topicPrefix + "/status"}
	p.sink = newSink("mqtt", log, p.publish)
	return p, nil
}

func (p *MQTTPublisher) publish(sample Sample) {
	payload, err := marshalSample(sample)
	if err != nil {
		return
	}
	token := p.client.Publish(p.topic, 0, true, payload)
	token.Wait()
}

func (p *MQTTPublisher) Close() error {
	p.closeQueue()
	p.client.Disconnect(250)
	return nil
}
