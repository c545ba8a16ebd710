package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const DefaultFile = "samsunghvac.json"

const (
	DriverBugst = "bugst"
	DriverRS485 = "rs485"
)

type Configuration struct {
	Serial  Serial  `mapstructure:"serial"`
	Bus     Bus     `mapstructure:"bus"`
	Http    Http    `mapstructure:"http"`
	Mqtt    Mqtt    `mapstructure:"mqtt"`
	Logging Logging `mapstructure:"logging"`
	Metrics Metrics `mapstructure:"metrics"`
}

type Serial struct {
	Port     string `mapstructure:"port"`
	Driver   string `mapstructure:"driver"`
	BaudRate int    `mapstructure:"baudRate"`
	// RtsDirection drives RTS high while sending, for adapters that don't
	// switch the bus direction on their own. Only used by the bugst driver.
	RtsDirection bool  `mapstructure:"rtsDirection"`
	RS485        RS485 `mapstructure:"rs485"`
}

type RS485 struct {
	DelayRtsBeforeSend time.Duration `mapstructure:"delayRtsBeforeSend"`
	DelayRtsAfterSend  time.Duration `mapstructure:"delayRtsAfterSend"`
}

// Bus holds the timing of the bus worker.
type Bus struct {
	PollInterval time.Duration `mapstructure:"pollInterval"`
	StartTimeout time.Duration `mapstructure:"startTimeout"`
	FrameTimeout time.Duration `mapstructure:"frameTimeout"`
	SendBudget   time.Duration `mapstructure:"sendBudget"`
	SettleDelay  time.Duration `mapstructure:"settleDelay"`
	SendTimeout  time.Duration `mapstructure:"sendTimeout"`
}

type Http struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

type Mqtt struct {
	Enable          bool          `mapstructure:"enable"`
	IpAddress       string        `mapstructure:"ipAddress"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	ClientId        string        `mapstructure:"clientId"`
	TopicPrefix     string        `mapstructure:"topicPrefix"`
	DiscoveryPrefix string        `mapstructure:"discoveryPrefix"`
	PollInterval    time.Duration `mapstructure:"pollInterval"`
}

type Logging struct {
	Level  string  `mapstructure:"level"`
	Format string  `mapstructure:"format"`
	File   LogFile `mapstructure:"file"`
}

// LogFile configures the rolling log file. An empty filename disables it.
type LogFile struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

type Metrics struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

// LoadConfiguration reads filename (JSON) on top of the defaults. Every key
// can be overridden from the environment, e.g. SAMSUNGHVAC_SERIAL_PORT.
// A missing file is fine when the environment provides what's needed.
func LoadConfiguration(filename string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SAMSUNGHVAC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename == "" {
		filename = DefaultFile
	}
	v.SetConfigFile(filename)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	configuration := &Configuration{}
	if err := v.Unmarshal(configuration); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return configuration, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("serial.port", "/dev/ttyUSB0")
	v.SetDefault("serial.driver", DriverBugst)
	v.SetDefault("serial.baudRate", 2400)
	v.SetDefault("serial.rtsDirection", false)
	v.SetDefault("serial.rs485.delayRtsBeforeSend", "0s")
	v.SetDefault("serial.rs485.delayRtsAfterSend", "0s")

	v.SetDefault("bus.pollInterval", "50ms")
	v.SetDefault("bus.startTimeout", "10ms")
	v.SetDefault("bus.frameTimeout", "20ms")
	v.SetDefault("bus.sendBudget", "180ms")
	v.SetDefault("bus.settleDelay", "10ms")
	v.SetDefault("bus.sendTimeout", "300ms")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.readTimeout", "5s")
	v.SetDefault("http.writeTimeout", "10s")

	v.SetDefault("mqtt.enable", false)
	v.SetDefault("mqtt.ipAddress", "")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.clientId", "")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.topicPrefix", "samsunghvac")
	v.SetDefault("mqtt.discoveryPrefix", "homeassistant")
	v.SetDefault("mqtt.pollInterval", "1s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 5)
	v.SetDefault("logging.file.maxBackups", 3)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", false)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.path", "/metrics")
}

func (c *Configuration) Validate() error {
	if c.Serial.Port == "" {
		return errors.New("serial.port is required")
	}

	switch c.Serial.Driver {
	case DriverBugst, DriverRS485:
	default:
		return fmt.Errorf("unknown serial driver %q", c.Serial.Driver)
	}

	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate %v", c.Serial.BaudRate)
	}

	timings := map[string]time.Duration{
		"bus.pollInterval": c.Bus.PollInterval,
		"bus.startTimeout": c.Bus.StartTimeout,
		"bus.frameTimeout": c.Bus.FrameTimeout,
		"bus.sendBudget":   c.Bus.SendBudget,
		"bus.sendTimeout":  c.Bus.SendTimeout,
	}
	for key, value := range timings {
		if value <= 0 {
			return fmt.Errorf("%v must be positive, got %v", key, value)
		}
	}

	if c.Bus.SettleDelay < 0 {
		return fmt.Errorf("bus.settleDelay must not be negative, got %v", c.Bus.SettleDelay)
	}

	if c.Mqtt.Enable {
		if c.Mqtt.IpAddress == "" {
			return errors.New("mqtt.ipAddress is required when mqtt is enabled")
		}
		if c.Mqtt.PollInterval <= 0 {
			return fmt.Errorf("mqtt.pollInterval must be positive, got %v", c.Mqtt.PollInterval)
		}
	}

	return nil
}

func (m *Mqtt) ClientOptions(logger *zap.Logger) *mqtt.ClientOptions {
	clientId := m.ClientId
	if clientId == "" {
		clientId = "samsunghvac-" + uuid.NewString()[:8]
	}

	return mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%v:%v", m.IpAddress, m.Port)).
		SetClientID(clientId).
		SetUsername(m.Username).
		SetPassword(m.Password).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(client mqtt.Client, err error) {
			logger.Warn("MQTT connection lost", zap.Error(err))
		}).
		SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
			logger.Info("MQTT reconnecting")
		})
}
