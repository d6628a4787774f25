package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultConfigPath          = "config.toml"
	DefaultEnvFile             = ".env"
	DefaultHTTPAddr            = ":8080"
	DefaultCacheTTLSeconds     = 600
	DefaultCacheSweepSeconds   = 120
	DefaultConcurrency         = 3
	DefaultImageMaxDimension   = 512
	DefaultImageJPEGQuality    = 75
	DefaultSummaryThreshold    = 1000
	DefaultFFmpegPath          = "ffmpeg"
	DefaultFFmpegPreset        = "ultrafast"
	DefaultMaxMediaBytes int64 = 50 * 1024 * 1024
	DefaultGeminiTextModel     = "gemini-2.0-flash"
	DefaultGeminiVisionModel   = "gemini-2.0-flash-lite"
	DefaultOpenAIModel         = "gpt-4o-mini"
	DefaultLineAPIBaseURL      = "https://api.line.me"
	DefaultLineDataBaseURL     = "https://api-data.line.me"
	DefaultIQAirBaseURL        = "http://api.airvisual.com"
	DefaultUserAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"
)

type Config struct {
	Log        LogConfig        `toml:"log"`
	Server     ServerConfig     `toml:"server"`
	Cache      CacheConfig      `toml:"cache"`
	Queue      QueueConfig      `toml:"queue"`
	Media      MediaConfig      `toml:"media"`
	Generation GenerationConfig `toml:"generation"`
	Speech     SpeechConfig     `toml:"speech"`
	Line       LineConfig       `toml:"line"`
	Weather    WeatherConfig    `toml:"weather"`
	Secrets    Secrets          `toml:"-"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

type CacheConfig struct {
	TTLSeconds   int `toml:"ttl_seconds" validate:"gt=0"`
	SweepSeconds int `toml:"sweep_seconds" validate:"gt=0"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// SweepSpec returns the cron spec used by the expiry sweeper.
func (c CacheConfig) SweepSpec() string {
	return fmt.Sprintf("@every %ds", c.SweepSeconds)
}

type QueueConfig struct {
	Concurrency int `toml:"concurrency" validate:"gt=0"`
}

type MediaConfig struct {
	TempDir           string `toml:"temp_dir"`
	FFmpegPath        string `toml:"ffmpeg_path" validate:"required"`
	FFmpegPreset      string `toml:"ffmpeg_preset" validate:"required"`
	ImageMaxDimension int    `toml:"image_max_dimension" validate:"gt=0"`
	ImageJPEGQuality  int    `toml:"image_jpeg_quality" validate:"gte=1,lte=100"`
	MaxMediaBytes     int64  `toml:"max_media_bytes" validate:"gt=0"`
}

type GenerationConfig struct {
	// Provider selects the completion backend: "gemini" or "openai".
	Provider           string  `toml:"provider" validate:"oneof=gemini openai"`
	TextModel          string  `toml:"text_model" validate:"required"`
	VisionModel        string  `toml:"vision_model" validate:"required"`
	SummaryThreshold   int     `toml:"summary_threshold" validate:"gt=0"`
	Temperature        float32 `toml:"temperature" validate:"gte=0,lte=2"`
	TopP               float32 `toml:"top_p" validate:"gte=0,lte=1"`
	TopK               float32 `toml:"top_k" validate:"gte=0"`
	MaxOutputTokens    int32   `toml:"max_output_tokens" validate:"gt=0"`
	SearchGrounding    bool    `toml:"search_grounding"`
	ExtractorUserAgent string  `toml:"extractor_user_agent" validate:"required"`
	TimeoutSeconds     int     `toml:"timeout_seconds" validate:"gt=0"`
}

func (c GenerationConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type SpeechConfig struct {
	LanguageCode             string   `toml:"language_code" validate:"required"`
	AlternativeLanguageCodes []string `toml:"alternative_language_codes"`
	Model                    string   `toml:"model" validate:"required"`
}

type LineConfig struct {
	APIBaseURL     string `toml:"api_base_url" validate:"required,http_url"`
	DataBaseURL    string `toml:"data_base_url" validate:"required,http_url"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gt=0"`
}

func (c LineConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type WeatherConfig struct {
	BaseURL        string `toml:"base_url" validate:"required,http_url"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gt=0"`
}

func (c WeatherConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Secrets are never read from the TOML file.
type Secrets struct {
	LineChannelAccessToken string `env:"LINE_CHANNEL_ACCESS_TOKEN"`
	GeminiAPIKey           string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey           string `env:"OPENAI_API_KEY"`
	IQAirAPIKey            string `env:"IQAIR_API_KEY"`
	GoogleCredentialsFile  string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Cache: CacheConfig{
			TTLSeconds:   DefaultCacheTTLSeconds,
			SweepSeconds: DefaultCacheSweepSeconds,
		},
		Queue: QueueConfig{
			Concurrency: DefaultConcurrency,
		},
		Media: MediaConfig{
			FFmpegPath:        DefaultFFmpegPath,
			FFmpegPreset:      DefaultFFmpegPreset,
			ImageMaxDimension: DefaultImageMaxDimension,
			ImageJPEGQuality:  DefaultImageJPEGQuality,
			MaxMediaBytes:     DefaultMaxMediaBytes,
		},
		Generation: GenerationConfig{
			Provider:           "gemini",
			TextModel:          DefaultGeminiTextModel,
			VisionModel:        DefaultGeminiVisionModel,
			SummaryThreshold:   DefaultSummaryThreshold,
			Temperature:        0.3,
			TopP:               0.5,
			TopK:               60,
			MaxOutputTokens:    1500,
			SearchGrounding:    true,
			ExtractorUserAgent: DefaultUserAgent,
			TimeoutSeconds:     60,
		},
		Speech: SpeechConfig{
			LanguageCode:             "th-TH",
			AlternativeLanguageCodes: []string{"en-US"},
			Model:                    "latest_long",
		},
		Line: LineConfig{
			APIBaseURL:     DefaultLineAPIBaseURL,
			DataBaseURL:    DefaultLineDataBaseURL,
			TimeoutSeconds: 30,
		},
		Weather: WeatherConfig{
			BaseURL:        DefaultIQAirBaseURL,
			TimeoutSeconds: 15,
		},
	}
}

// Load reads the TOML policy file at path (defaults when absent), then
// overlays secrets from envFile and the process environment.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return cfg, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := env.Parse(&cfg.Secrets); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	if strings.TrimSpace(cfg.Media.TempDir) == "" {
		cfg.Media.TempDir = os.TempDir()
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the policy values; secrets are checked by the services that need them.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
