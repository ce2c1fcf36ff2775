package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

const (
	DefaultHost              = "localhost"
	DefaultPort              = 8100
	DefaultRequestTimeout    = 5 * time.Second
	DefaultMaxSessionRetries = 3
	DefaultKeepAlive         = "@every 30s"
	DefaultListen            = "localhost:12000"
	DefaultClientCacheSize   = 16

	deviceSection = "device"
)

// WDA holds the connectivity defaults for automation servers
type WDA struct {
	Host              string
	Port              int
	RequestTimeout    time.Duration
	MaxSessionRetries int
	KeepAlive         string
}

// Device overrides WDA connectivity for one tethered device.
// DevicePort is the WDA port on the device itself; when Forward is set the
// local Port is forwarded to it over usbmuxd.
type Device struct {
	Serial     string
	Host       string
	Port       int
	DevicePort int
	Forward    bool
}

type Notifier struct {
	HubURL string
	Group  string
}

type Server struct {
	Listen    string
	CORS      bool
	CacheSize int
}

type Config struct {
	WDA      WDA
	Notifier Notifier
	Server   Server
	Devices  map[string]Device
}

func Default() *Config {
	return &Config{
		WDA: WDA{
			Host:              DefaultHost,
			Port:              DefaultPort,
			RequestTimeout:    DefaultRequestTimeout,
			MaxSessionRetries: DefaultMaxSessionRetries,
			KeepAlive:         DefaultKeepAlive,
		},
		Server: Server{
			Listen:    DefaultListen,
			CacheSize: DefaultClientCacheSize,
		},
		Devices: map[string]Device{},
	}
}

// Load reads an INI config file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	file, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := Default()

	wda := file.Section("wda")
	cfg.WDA.Host = wda.Key("host").MustString(DefaultHost)
	cfg.WDA.Port = wda.Key("port").MustInt(DefaultPort)
	cfg.WDA.RequestTimeout = wda.Key("request_timeout").MustDuration(DefaultRequestTimeout)
	cfg.WDA.MaxSessionRetries = wda.Key("max_session_retries").MustInt(DefaultMaxSessionRetries)
	cfg.WDA.KeepAlive = wda.Key("keepalive").MustString(DefaultKeepAlive)

	notifier := file.Section("notifier")
	cfg.Notifier.HubURL = notifier.Key("hub_url").String()
	cfg.Notifier.Group = notifier.Key("group").String()

	server := file.Section("server")
	cfg.Server.Listen = server.Key("listen").MustString(DefaultListen)
	cfg.Server.CORS = server.Key("cors").MustBool(false)
	cfg.Server.CacheSize = server.Key("cache_size").MustInt(DefaultClientCacheSize)

	for _, section := range file.Sections() {
		name := section.Name()
		serial, ok := deviceSerial(name)
		if !ok {
			continue
		}
		if serial == "" {
			return nil, fmt.Errorf("device section %q has no serial", name)
		}

		device := Device{
			Serial:     serial,
			Host:       section.Key("host").MustString(cfg.WDA.Host),
			Port:       section.Key("port").MustInt(cfg.WDA.Port),
			DevicePort: section.Key("device_port").MustInt(DefaultPort),
			Forward:    section.Key("forward").MustBool(false),
		}
		cfg.Devices[serial] = device
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.WDA.Port <= 0 || c.WDA.Port > 65535 {
		return fmt.Errorf("invalid wda port %d", c.WDA.Port)
	}
	if c.WDA.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.WDA.RequestTimeout)
	}
	if c.WDA.MaxSessionRetries < 1 {
		return fmt.Errorf("max_session_retries must be at least 1, got %d", c.WDA.MaxSessionRetries)
	}
	for serial, d := range c.Devices {
		if d.Port <= 0 || d.Port > 65535 {
			return fmt.Errorf("invalid port %d for device %s", d.Port, serial)
		}
		if d.DevicePort <= 0 || d.DevicePort > 65535 {
			return fmt.Errorf("invalid device_port %d for device %s", d.DevicePort, serial)
		}
	}
	return nil
}

// deviceSerial extracts the serial from a [device "<serial>"] section name.
// The dotted [device.<serial>] form is accepted as well.
func deviceSerial(name string) (string, bool) {
	if rest, ok := strings.CutPrefix(name, deviceSection+"."); ok {
		return rest, true
	}

	rest, ok := strings.CutPrefix(name, deviceSection+" ")
	if !ok {
		return "", false
	}

	rest = strings.TrimSpace(rest)
	if serial, err := strconv.Unquote(rest); err == nil {
		return serial, true
	}
	return strings.Trim(rest, `"`), true
}

// Device returns the connectivity for serial, falling back to the [wda]
// defaults for devices without their own section
func (c *Config) Device(serial string) Device {
	if d, ok := c.Devices[serial]; ok {
		return d
	}

	return Device{
		Serial:     serial,
		Host:       c.WDA.Host,
		Port:       c.WDA.Port,
		DevicePort: DefaultPort,
	}
}
