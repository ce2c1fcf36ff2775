package devices

import (
	"context"
	"fmt"
	"time"

	"github.com/mobile-next/wdactl/config"
	"github.com/mobile-next/wdactl/devices/ios"
	"github.com/mobile-next/wdactl/devices/wda"
	"github.com/mobile-next/wdactl/utils"
)

const (
	cleanupTimeout = 5 * time.Second
	readyTimeout   = 10 * time.Second
)

// IOSDevice is a tethered device driven through its WebDriverAgent
type IOSDevice struct {
	Udid      string
	conf      config.Device
	client    *wda.SizedClient
	forwarder *ios.PortForwarder
}

func NewIOSDevice(conf config.Device, wdaConf config.WDA, notifier wda.Notifier) *IOSDevice {
	client := wda.NewWdaClient(wda.Config{
		Serial:            conf.Serial,
		Host:              conf.Host,
		Port:              conf.Port,
		RequestTimeout:    wdaConf.RequestTimeout,
		MaxSessionRetries: wdaConf.MaxSessionRetries,
	}, notifier)

	d := &IOSDevice{
		Udid:   conf.Serial,
		conf:   conf,
		client: wda.NewSizedClient(client),
	}
	if conf.Forward {
		d.forwarder = ios.NewPortForwarder(conf.Serial)
	}
	return d
}

func (d *IOSDevice) ID() string {
	return d.Udid
}

func (d *IOSDevice) Client() *wda.SizedClient {
	return d.client
}

// StartAgent forwards the WDA port when configured and opens a session
func (d *IOSDevice) StartAgent(ctx context.Context) error {
	if d.forwarder != nil && !d.forwarder.IsRunning() {
		if !utils.IsPortAvailable("127.0.0.1", d.conf.Port) {
			return fmt.Errorf("local port %d for device %s is already in use", d.conf.Port, d.Udid)
		}
		if err := d.forwarder.Forward(d.conf.Port, d.conf.DevicePort); err != nil {
			return err
		}
		if err := d.client.WaitForReady(ctx, readyTimeout); err != nil {
			return fmt.Errorf("agent on %s is not answering through the forward: %w", d.Udid, err)
		}
	}

	if err := d.client.Connect(ctx); err != nil {
		return fmt.Errorf("failed to start agent on %s: %w", d.Udid, err)
	}
	return nil
}

// Cleanup removes the live session and stops port forwarding
func (d *IOSDevice) Cleanup() error {
	var errs []error

	if d.client.SessionID() != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		if err := d.client.RemoveSession(ctx); err != nil {
			utils.Warn("could not remove session on %s: %v", d.Udid, err)
			errs = append(errs, err)
		}
	}

	if d.forwarder != nil && d.forwarder.IsRunning() {
		if err := d.forwarder.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup of %s failed: %v", d.Udid, errs)
	}
	return nil
}

func (d *IOSDevice) Info() DeviceInfo {
	info := DeviceInfo{
		ID:        d.Udid,
		BaseURL:   d.client.BaseURL(),
		SessionID: d.client.SessionID(),
	}
	if d.forwarder != nil && d.forwarder.IsRunning() {
		info.Forwarded = true
		_, info.DevicePort = d.forwarder.GetPorts()
	}
	return info
}
