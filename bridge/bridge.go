package bridge

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/victorjacobs/go-samsunghvac/config"
	"github.com/victorjacobs/go-samsunghvac/homeassistant"
	"github.com/victorjacobs/go-samsunghvac/samsung"
)

// Bridge exposes the unit as a Home Assistant climate entity over MQTT.
type Bridge struct {
	cfg           *config.Mqtt
	client        *samsung.Client
	logger        *zap.Logger
	topics        homeassistant.Topics
	lastPublished map[string]string
}

func New(cfg *config.Mqtt, client *samsung.Client, logger *zap.Logger) *Bridge {
	return &Bridge{
		cfg:           cfg,
		client:        client,
		logger:        logger,
		topics:        homeassistant.Topics{Prefix: cfg.TopicPrefix},
		lastPublished: map[string]string{},
	}
}

func (b *Bridge) RegisterClimate(mqttClient mqtt.Client) error {
	homeAssistantClient := homeassistant.NewClient(mqttClient, b.cfg.DiscoveryPrefix, b.topics)

	if err := homeAssistantClient.RegisterClimate(); err != nil {
		return err
	}
	b.logger.Info("Registered climate entity", zap.String("discovery_prefix", b.cfg.DiscoveryPrefix))

	return nil
}

// SubscribeToCommands has to run from the connect handler so subscriptions
// come back after a reconnect.
func (b *Bridge) SubscribeToCommands(mqttClient mqtt.Client) {
	for _, commandConfig := range commandDefinitions {
		topic := b.topics.Command(commandConfig.name)

		if t := mqttClient.Subscribe(topic, 0, func(client mqtt.Client, msg mqtt.Message) {
			b.handleCommand(commandConfig, string(msg.Payload()))
		}); t.Wait() && t.Error() != nil {
			b.logger.Error("MQTT subscribe failed", zap.String("topic", topic), zap.Error(t.Error()))
		}
	}
}

func (b *Bridge) handleCommand(commandConfig *commandConfiguration, payload string) {
	mutate, err := commandConfig.apply(payload)
	if err != nil {
		b.logger.Warn("Ignoring MQTT command", zap.String("command", commandConfig.name), zap.Error(err))
		return
	}

	b.client.Update(mutate)
}

// PollState publishes every known field of the current state whose value
// changed since the last publish.
func (b *Bridge) PollState(mqttClient mqtt.Client) {
	status := b.client.GetStatus()

	for _, stateConfig := range stateDefinitions {
		value := stateConfig.get(status)
		if value == "" {
			continue
		}

		if last, ok := b.lastPublished[stateConfig.name]; ok && last == value {
			continue
		}

		if t := mqttClient.Publish(b.topics.State(stateConfig.name), 0, true, value); t.Wait() && t.Error() != nil {
			b.logger.Warn("MQTT publishing failed", zap.String("state", stateConfig.name), zap.Error(t.Error()))
			continue
		}

		b.lastPublished[stateConfig.name] = value
	}
}
