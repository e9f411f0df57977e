package repo

import (
	"os"
	"path"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

type Duration time.Duration

func (d *Duration) MarshalText() (text []byte, err error) {
	return []byte(time.Duration(*d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	x, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(x)
	return nil
}

func StringToTimeDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(
		f reflect.Type,
		t reflect.Type,
		data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(Duration(5)) {
			return data, nil
		}

		d, err := time.ParseDuration(data.(string))
		if err != nil {
			return nil, err
		}
		return Duration(d), nil
	}
}

func (d *Duration) ToDuration() time.Duration {
	return time.Duration(*d)
}

func (d *Duration) String() string {
	return time.Duration(*d).String()
}

type Config struct {
	Ulimit   uint64   `mapstructure:"ulimit" toml:"ulimit"`
	Port     Port     `mapstructure:"port" toml:"port"`
	Storage  Storage  `mapstructure:"storage" toml:"storage"`
	Executor Executor `mapstructure:"executor" toml:"executor"`
	Monitor  Monitor  `mapstructure:"monitor" toml:"monitor"`
	Log      Log      `mapstructure:"log" toml:"log"`
}

type Port struct {
	Monitor int64 `mapstructure:"monitor" toml:"monitor"`
}

type Storage struct {
	KvType      string `mapstructure:"kv_type" toml:"kv_type"`
	Sync        bool   `mapstructure:"sync" toml:"sync"`
	KVCacheSize int    `mapstructure:"kv_cache_size" toml:"kv_cache_size"`
}

type Executor struct {
	// MaxCallDepth bounds nested contract calls inside one transaction
	MaxCallDepth int `mapstructure:"max_call_depth" toml:"max_call_depth"`
}

type Monitor struct {
	Enable bool `mapstructure:"enable" toml:"enable"`
}

type Log struct {
	Level            string `mapstructure:"level" toml:"level"`
	Filename         string `mapstructure:"filename" toml:"filename"`
	ReportCaller     bool   `mapstructure:"report_caller" toml:"report_caller"`
	EnableColor      bool   `mapstructure:"enable_color" toml:"enable_color"`
	DisableTimestamp bool   `mapstructure:"disable_timestamp" toml:"disable_timestamp"`
	Persist          bool   `mapstructure:"persist" toml:"persist"`

	// unit: day
	MaxAge uint `mapstructure:"max_age" toml:"max_age"`

	RotationTime Duration  `mapstructure:"rotation_time" toml:"rotation_time"`
	Module       LogModule `mapstructure:"module" toml:"module"`
}

type LogModule struct {
	App            string `mapstructure:"app" toml:"app"`
	Executor       string `mapstructure:"executor" toml:"executor"`
	Storage        string `mapstructure:"storage" toml:"storage"`
	SystemContract string `mapstructure:"system_contract" toml:"system_contract"`
	Vault          string `mapstructure:"vault" toml:"vault"`
}

func (c *Config) Bytes() ([]byte, error) {
	raw, err := MarshalConfig(c)
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

func DefaultConfig() *Config {
	return &Config{
		Ulimit: 65535,
		Port: Port{
			Monitor: 40011,
		},
		Storage: Storage{
			KvType:      KVStorageTypeLeveldb,
			Sync:        KVStorageSync,
			KVCacheSize: KVStorageCacheSize,
		},
		Executor: Executor{
			MaxCallDepth: DefaultMaxCallDepth,
		},
		Monitor: Monitor{
			Enable: false,
		},
		Log: Log{
			Level:            "info",
			Filename:         "axiom-vault",
			ReportCaller:     false,
			EnableColor:      true,
			DisableTimestamp: false,
			Persist:          false,
			MaxAge:           30,
			RotationTime:     Duration(24 * time.Hour),
			Module: LogModule{
				App:            "info",
				Executor:       "info",
				Storage:        "info",
				SystemContract: "info",
				Vault:          "info",
			},
		},
	}
}

func LoadConfig(repoRoot string) (*Config, error) {
	cfg, err := func() (*Config, error) {
		cfg := DefaultConfig()
		cfgPath := path.Join(repoRoot, CfgFileName)
		if !fileExist(cfgPath) {
			err := os.MkdirAll(repoRoot, 0755)
			if err != nil {
				return nil, errors.Wrap(err, "failed to build default config")
			}

			if err := writeConfigWithEnv(cfgPath, cfg); err != nil {
				return nil, errors.Wrap(err, "failed to build default config")
			}
		} else {
			if err := CheckWritable(repoRoot); err != nil {
				return nil, err
			}
			if err := readConfigFromFile(cfgPath, cfg); err != nil {
				return nil, err
			}
		}

		return cfg, nil
	}()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}
