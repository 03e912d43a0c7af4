// Package deviceconfig loads the device naming and recording configuration
// consumed by the session manager. The configuration is read once and treated
// as an immutable snapshot; an active session keeps the snapshot it was
// created with even if the file changes afterwards.
package deviceconfig

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Default filename extensions for produced recordings.
const (
	DefaultContainerExtension = ".mkv"
	DefaultAudioExtension     = ".wav"
)

// DefaultTimestampFormat is the Go time layout used for session timestamps.
const DefaultTimestampFormat = "2006-01-02_15-04-05"

// Config is the full configuration document (config.json).
type Config struct {
	Recording RecordingConfig `mapstructure:"recording" json:"recording"`
	Kinect    KinectConfig    `mapstructure:"kinect" json:"kinect"`
	Audio     AudioConfig     `mapstructure:"audio" json:"audio"`
}

// RecordingConfig holds session-level recording settings.
type RecordingConfig struct {
	// Mode is the default recording topology: "standalone" or "sync".
	Mode string `mapstructure:"mode" json:"mode"`
	// Duration is the recording length in seconds, passed through to the
	// capture processes. The session manager itself does not time anything.
	Duration int `mapstructure:"duration" json:"duration"`
	// BaseOutputDir is the root under which session directories are created.
	BaseOutputDir string `mapstructure:"base_output_dir" json:"base_output_dir"`
	// TimestampFormat is the Go time layout for session timestamps.
	TimestampFormat string `mapstructure:"timestamp_format" json:"timestamp_format"`
}

// KinectConfig holds camera device settings.
type KinectConfig struct {
	// DeviceNames maps host -> device index (stringified) -> friendly name.
	// The reserved "local" host bucket names devices on this machine.
	DeviceNames map[string]map[string]string `mapstructure:"device_names" json:"device_names"`
	// IPDevices maps host -> device indices recorded on that host (sync mode).
	IPDevices map[string][]int `mapstructure:"ip_devices" json:"ip_devices"`
	// ContainerExtension is the recording container suffix, including the dot.
	ContainerExtension string `mapstructure:"container_extension" json:"container_extension"`
}

// AudioConfig holds audio device settings.
type AudioConfig struct {
	// DeviceNames maps device index (stringified) -> friendly name.
	DeviceNames map[string]string `mapstructure:"device_names" json:"device_names"`
	// InputDeviceIndex lists the audio devices recorded by default.
	InputDeviceIndex []int `mapstructure:"input_device_index" json:"input_device_index"`
	// FileExtension is the audio file suffix, including the dot.
	FileExtension string `mapstructure:"file_extension" json:"file_extension"`
}

// Default returns the built-in configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Recording: RecordingConfig{
			Mode:            "sync",
			Duration:        10,
			BaseOutputDir:   "recordings",
			TimestampFormat: DefaultTimestampFormat,
		},
		Kinect: KinectConfig{
			DeviceNames:        map[string]map[string]string{},
			IPDevices:          map[string][]int{},
			ContainerExtension: DefaultContainerExtension,
		},
		Audio: AudioConfig{
			DeviceNames:      map[string]string{},
			InputDeviceIndex: []int{},
			FileExtension:    DefaultAudioExtension,
		},
	}
}

// Load reads the configuration file at path. A missing file is not an error:
// the built-in defaults are returned. An existing file is validated against
// the embedded schema before it is decoded, so a malformed file fails loudly
// instead of silently producing broken device names.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := ValidateRaw(data); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	// Device name tables are keyed by IP address; viper's default "."
	// key delimiter would split those keys, so use one that cannot
	// appear in them.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("recording::mode", cfg.Recording.Mode)
	v.SetDefault("recording::duration", cfg.Recording.Duration)
	v.SetDefault("recording::base_output_dir", cfg.Recording.BaseOutputDir)
	v.SetDefault("recording::timestamp_format", cfg.Recording.TimestampFormat)
	v.SetDefault("kinect::container_extension", cfg.Kinect.ContainerExtension)
	v.SetDefault("audio::file_extension", cfg.Audio.FileExtension)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if cfg.Kinect.DeviceNames == nil {
		cfg.Kinect.DeviceNames = map[string]map[string]string{}
	}
	if cfg.Audio.DeviceNames == nil {
		cfg.Audio.DeviceNames = map[string]string{}
	}

	return cfg, nil
}
