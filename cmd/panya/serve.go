package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/panyaai/panya/internal/cache"
	"github.com/panyaai/panya/internal/config"
	"github.com/panyaai/panya/internal/dispatch"
	"github.com/panyaai/panya/internal/generation"
	"github.com/panyaai/panya/internal/handlers"
	"github.com/panyaai/panya/internal/line"
	"github.com/panyaai/panya/internal/logger"
	"github.com/panyaai/panya/internal/media"
	"github.com/panyaai/panya/internal/observe"
	"github.com/panyaai/panya/internal/queue"
	"github.com/panyaai/panya/internal/server"
	"github.com/panyaai/panya/internal/speech"
	"github.com/panyaai/panya/internal/sysinfo"
	"github.com/panyaai/panya/internal/version"
	"github.com/panyaai/panya/internal/weather"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideMetrics,
			provideCache,
			provideLimiter,
			provideTranscoder,
			provideTranscriber,
			provideGenerator,
			provideLineClient,
			provideWeatherClient,
			sysinfo.NewCollector,
			provideDispatcher,
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(handlers.NewMetricsHandler),
			provideServerHandler(handlers.NewWebhookServerHandler),
			provideServer,
		),
		fx.Invoke(
			startCacheSweeper,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfg, err := config.Load(configPath(), envFlag)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideMetrics(lc fx.Lifecycle) (*observe.Metrics, error) {
	mp, shutdown, err := observe.InitProvider(context.Background(), observe.ProviderConfig{
		ServiceName:    "panya",
		ServiceVersion: version.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("metrics provider: %w", err)
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return observe.NewMetrics(mp)
}

func provideCache(log *slog.Logger, cfg config.Config) *cache.Cache {
	return cache.New(log, cfg.Cache.TTL())
}

func provideLimiter(log *slog.Logger, cfg config.Config, metrics *observe.Metrics) *queue.Limiter {
	return queue.New(log, cfg.Queue.Concurrency, metrics)
}

func provideTranscoder(log *slog.Logger, cfg config.Config, metrics *observe.Metrics) *media.Transcoder {
	return media.NewTranscoder(log, media.TranscoderConfig{
		Dir:        cfg.Media.TempDir,
		FFmpegPath: cfg.Media.FFmpegPath,
		Preset:     cfg.Media.FFmpegPreset,
	}, media.ExecRunner, metrics)
}

func provideTranscriber(lc fx.Lifecycle, log *slog.Logger, cfg config.Config, metrics *observe.Metrics) (*speech.Transcriber, error) {
	recognizer, err := speech.NewGoogleRecognizer(context.Background(), cfg.Secrets.GoogleCredentialsFile)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return recognizer.Close() }})

	sc := speech.DefaultConfig()
	sc.LanguageCode = cfg.Speech.LanguageCode
	sc.AlternativeLanguageCodes = cfg.Speech.AlternativeLanguageCodes
	sc.Model = cfg.Speech.Model
	return speech.NewTranscriber(log, recognizer, sc, metrics), nil
}

func provideGenerator(log *slog.Logger, cfg config.Config, metrics *observe.Metrics) (*generation.Gateway, error) {
	gc := cfg.Generation
	sampling := generation.Sampling{
		Temperature:     gc.Temperature,
		TopP:            gc.TopP,
		TopK:            gc.TopK,
		MaxOutputTokens: gc.MaxOutputTokens,
	}

	var (
		model generation.Model
		err   error
	)
	switch gc.Provider {
	case "openai":
		name := gc.TextModel
		if strings.HasPrefix(name, "gemini") {
			name = config.DefaultOpenAIModel
		}
		model, err = generation.NewOpenAI(generation.OpenAIConfig{
			APIKey:   cfg.Secrets.OpenAIAPIKey,
			Model:    name,
			Sampling: sampling,
		})
	default:
		model, err = generation.NewGemini(context.Background(), generation.GeminiConfig{
			APIKey:          cfg.Secrets.GeminiAPIKey,
			TextModel:       gc.TextModel,
			VisionModel:     gc.VisionModel,
			Sampling:        sampling,
			SearchGrounding: gc.SearchGrounding,
		})
	}
	if err != nil {
		return nil, err
	}

	extractor := generation.NewReadabilityExtractor(log, generation.ExtractorConfig{
		UserAgent: gc.ExtractorUserAgent,
		Timeout:   gc.Timeout(),
	})
	return generation.NewGateway(log, model, extractor, generation.Options{
		SummaryThreshold: gc.SummaryThreshold,
	}, metrics), nil
}

func provideLineClient(log *slog.Logger, cfg config.Config) (*line.Client, error) {
	if cfg.Secrets.LineChannelAccessToken == "" {
		return nil, errors.New("LINE_CHANNEL_ACCESS_TOKEN is required")
	}
	return line.NewClient(log, line.ClientConfig{
		ChannelAccessToken: cfg.Secrets.LineChannelAccessToken,
		APIBaseURL:         cfg.Line.APIBaseURL,
		DataBaseURL:        cfg.Line.DataBaseURL,
		Timeout:            cfg.Line.Timeout(),
		MaxContentBytes:    cfg.Media.MaxMediaBytes,
	}), nil
}

func provideWeatherClient(log *slog.Logger, cfg config.Config) *weather.Client {
	return weather.NewClient(log, weather.ClientConfig{
		APIKey:  cfg.Secrets.IQAirAPIKey,
		BaseURL: cfg.Weather.BaseURL,
		Timeout: cfg.Weather.Timeout(),
	})
}

type dispatcherParams struct {
	fx.In

	Logger      *slog.Logger
	Config      config.Config
	Metrics     *observe.Metrics
	Cache       *cache.Cache
	Limiter     *queue.Limiter
	Line        *line.Client
	Generator   *generation.Gateway
	Transcoder  *media.Transcoder
	Transcriber *speech.Transcriber
	Weather     *weather.Client
	Status      *sysinfo.Collector
}

func provideDispatcher(p dispatcherParams) *dispatch.Dispatcher {
	return dispatch.New(p.Logger, dispatch.Deps{
		Delivery:    p.Line,
		Generator:   p.Generator,
		Transcoder:  p.Transcoder,
		Transcriber: p.Transcriber,
		AirQuality:  p.Weather,
		Status:      p.Status,
		Cache:       p.Cache,
		Limiter:     p.Limiter,
		Metrics:     p.Metrics,
	}, dispatch.Options{
		CacheTTL: p.Config.Cache.TTL(),
		Image: media.ImageOptions{
			MaxDimension: p.Config.Media.ImageMaxDimension,
			JPEGQuality:  p.Config.Media.ImageJPEGQuality,
		},
	})
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(p serverParams) *server.Server {
	return server.NewServer(p.Logger, p.Config.Server.Addr, p.ServerHandlers...)
}

func startCacheSweeper(lc fx.Lifecycle, log *slog.Logger, cfg config.Config, c *cache.Cache) error {
	sweeper, err := cache.NewSweeper(log, c, cfg.Cache.SweepSpec())
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { sweeper.Start(); return nil },
		OnStop:  func(context.Context) error { sweeper.Stop(); return nil },
	})
	return nil
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting panya", slog.String("version", version.GetInfo()), slog.String("addr", cfg.Server.Addr))
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
