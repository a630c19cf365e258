package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Postgres DBConfig
	Redis    RedisConfig
	S3       S3Config
	Logger   Logger
	Worker   WorkerConfig
	Clips    ClipsConfig
	Caption  CaptionConfig
}

type ServerConfig struct {
	AppVersion   string
	Port         string
	Mode         string
	JwtSecretKey string
	UploadDir    string
	MaxUploadMB  int64
}

type WorkerConfig struct {
	WorkerCount int
	MaxCPUUsage float64
	TempDir     string
	OutputDir   string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	JobQueueKey   string
	StatusPrefix  string
}

type S3Config struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	InputBucket  string
	OutputBucket string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

// ClipsConfig drives the segmentation and composition pipeline.
// Policy selects how clip start offsets are chosen: "uniform" tiles the
// whole video back to back, "spaced" samples evenly between edge margins.
type ClipsConfig struct {
	Policy         string
	ClipDuration   float64
	TargetClips    int
	EdgeMargin     float64
	FadeInSeconds  float64
	FadeOutSeconds float64
	AudioVolume    float64
	OutputFPS      int
	FrameWidth     int
	FrameHeight    int
	SoundsDir      string
	SoundLibrary   []SoundConfig
}

type SoundConfig struct {
	ID   string `mapstructure:"id"`
	File string `mapstructure:"file"`
}

type CaptionConfig struct {
	Fonts        []string
	FallbackFont string
	FontSize     int
	Color        string
	StrokeColor  string
	StrokeWidth  int
	Shadow       bool
	ShadowOffset int
	ShadowAlpha  float64
	Position     string
	MarginTop    int
	MarginBottom int
	TopFraction  float64
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	applyClipDefaults(&c)
	return &c, nil
}

func applyClipDefaults(c *Config) {
	if c.Clips.Policy == "" {
		c.Clips.Policy = "uniform"
	}
	if c.Clips.ClipDuration <= 0 {
		c.Clips.ClipDuration = 7
	}
	if c.Clips.TargetClips <= 0 {
		c.Clips.TargetClips = 5
	}
	if c.Clips.EdgeMargin <= 0 {
		c.Clips.EdgeMargin = 2
	}
	if c.Clips.FadeInSeconds <= 0 {
		c.Clips.FadeInSeconds = 0.3
	}
	if c.Clips.FadeOutSeconds <= 0 {
		c.Clips.FadeOutSeconds = 0.3
	}
	if c.Clips.AudioVolume <= 0 {
		c.Clips.AudioVolume = 0.85
	}
	if c.Clips.OutputFPS <= 0 {
		c.Clips.OutputFPS = 30
	}
	if c.Clips.FrameWidth <= 0 || c.Clips.FrameHeight <= 0 {
		c.Clips.FrameWidth = 1080
		c.Clips.FrameHeight = 1920
	}
	if c.Caption.FontSize <= 0 {
		c.Caption.FontSize = 52
	}
	if c.Caption.Color == "" {
		c.Caption.Color = "white"
	}
	if c.Caption.StrokeColor == "" {
		c.Caption.StrokeColor = "black"
	}
	if c.Caption.StrokeWidth <= 0 {
		c.Caption.StrokeWidth = 2
	}
	if c.Caption.Position == "" {
		c.Caption.Position = "bottom"
	}
	if c.Caption.MarginTop <= 0 {
		c.Caption.MarginTop = 60
	}
	if c.Caption.MarginBottom <= 0 {
		c.Caption.MarginBottom = 80
	}
	if c.Caption.ShadowOffset <= 0 {
		c.Caption.ShadowOffset = 2
	}
	if c.Caption.ShadowAlpha <= 0 {
		c.Caption.ShadowAlpha = 0.5
	}
	if c.Caption.FallbackFont == "" {
		c.Caption.FallbackFont = "DejaVu Sans"
	}
}
