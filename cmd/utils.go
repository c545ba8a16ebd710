package cmd

import (
	"time"

	"go.uber.org/zap"

	"github.com/victorjacobs/go-samsunghvac/config"
	"github.com/victorjacobs/go-samsunghvac/samsung"
)

func loopSafely(logger *zap.Logger, f func()) {
	defer func() {
		if v := recover(); v != nil {
			logger.Error("Panic, restarting", zap.Any("panic", v))
			time.Sleep(time.Second)
			go loopSafely(logger, f)
		}
	}()

	for {
		f()
	}
}

func timing(bus config.Bus) samsung.Timing {
	return samsung.Timing{
		PollInterval: bus.PollInterval,
		StartTimeout: bus.StartTimeout,
		FrameTimeout: bus.FrameTimeout,
		SendBudget:   bus.SendBudget,
		SettleDelay:  bus.SettleDelay,
		SendTimeout:  bus.SendTimeout,
	}
}
