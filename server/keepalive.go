package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mobile-next/wdactl/commands"
	"github.com/mobile-next/wdactl/devices"
	"github.com/robfig/cron/v3"
)

const keepAliveTimeout = 10 * time.Second

func (s *Server) startKeepAlive() error {
	if s.keepSpec == "" {
		return nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.keepSpec, s.keepAlive); err != nil {
		return fmt.Errorf("invalid keepalive schedule %q: %w", s.keepSpec, err)
	}

	s.cron.Start()
	s.log.Debugf("keepalive scheduled %s", s.keepSpec)
	return nil
}

func (s *Server) stopKeepAlive() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// keepAlive probes every cached device and reconnects the ones whose agent
// stopped answering
func (s *Server) keepAlive() {
	registry := commands.GetRegistry()
	if registry == nil {
		return
	}

	var stale []*devices.IOSDevice
	registry.Each(func(device *devices.IOSDevice) {
		ctx, cancel := context.WithTimeout(context.Background(), keepAliveTimeout)
		defer cancel()

		if err := device.Client().HealthCheck(ctx); err != nil {
			s.log.Warnf("keepalive: %s did not answer: %v", device.ID(), err)
			stale = append(stale, device)
		}
	})

	for _, device := range stale {
		ctx, cancel := context.WithTimeout(context.Background(), keepAliveTimeout)
		if err := device.Client().Connect(ctx); err != nil {
			s.log.Errorf("keepalive: reconnect of %s failed: %v", device.ID(), err)
		}
		cancel()
	}
}
