package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/victorjacobs/go-samsunghvac/bridge"
	"github.com/victorjacobs/go-samsunghvac/config"
	"github.com/victorjacobs/go-samsunghvac/logging"
	"github.com/victorjacobs/go-samsunghvac/metrics"
	"github.com/victorjacobs/go-samsunghvac/routes"
	"github.com/victorjacobs/go-samsunghvac/samsung"
	"github.com/victorjacobs/go-samsunghvac/transport"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bus worker, HTTP API and MQTT bridge",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfiguration(configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := samsung.NewClient(logger.Named("client"))

	registry := metrics.NewRegistry()
	busMetrics := metrics.NewBusMetrics(registry, client.QueueLen)

	logger.Info("Opening serial port", zap.String("port", cfg.Serial.Port), zap.String("driver", cfg.Serial.Driver))
	session := samsung.NewSession(func() (transport.Port, error) {
		return transport.Open(cfg.Serial)
	}, client, logger.Named("session"),
		samsung.WithTiming(timing(cfg.Bus)),
		samsung.WithLogger(logger.Named("bus")),
		samsung.WithMetrics(busMetrics),
	)

	if cfg.Mqtt.Enable {
		mqttClient, err := startMqtt(&cfg.Mqtt, client, logger.Named("mqtt"))
		if err != nil {
			return err
		}
		defer mqttClient.Disconnect(250)
	}

	// Start httprouter
	router := httprouter.New()
	router.GET("/", routes.State(client, logger))
	router.GET("/api/state", routes.State(client, logger))
	router.GET("/SetStatus", routes.SetStatus(client))
	router.GET("/RestartEsp", routes.Restart(session.Restart))
	router.GET("/ws", routes.Stream(client, logger.Named("stream")))
	if cfg.Metrics.Enable {
		router.Handler(http.MethodGet, cfg.Metrics.Path, metrics.Handler(registry))
	}

	server := &http.Server{
		Addr:         cfg.Http.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Http.ReadTimeout,
		WriteTimeout: cfg.Http.WriteTimeout,
	}
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Http.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	runErr := session.Run(ctx)
	if runErr != nil {
		runErr = fmt.Errorf("opening serial port: %w", runErr)
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown failed", zap.Error(err))
	}

	return runErr
}

func startMqtt(cfg *config.Mqtt, client *samsung.Client, logger *zap.Logger) (mqtt.Client, error) {
	bridge := bridge.New(cfg, client, logger)

	mqttOpts := cfg.ClientOptions(logger)
	// Configure MQTT subscriptions in the ConnectHandler to make sure they are set up after reconnect
	mqttOpts.SetOnConnectHandler(func(c mqtt.Client) {
		logger.Info("MQTT connected")
		bridge.SubscribeToCommands(c)
	})

	mqttClient := mqtt.NewClient(mqttOpts)
	if t := mqttClient.Connect(); t.Wait() && t.Error() != nil {
		return nil, fmt.Errorf("MQTT connection: %w", t.Error())
	}

	if err := bridge.RegisterClimate(mqttClient); err != nil {
		logger.Error("Registering climate entity failed", zap.Error(err))
	}

	go loopSafely(logger, func() {
		bridge.PollState(mqttClient)

		time.Sleep(cfg.PollInterval)
	})

	return mqttClient, nil
}
