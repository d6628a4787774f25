// Package weather looks up current weather and air quality near a point and
// formats the report sent back to users.
package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "http://api.airvisual.com"

// ErrLookup indicates the air-quality service could not answer.
var ErrLookup = errors.New("weather lookup failed")

type Conditions struct {
	City    string
	Country string
	// Temperature in °C, humidity in %, wind in m/s, pressure in hPa.
	Temperature   float64
	Humidity      float64
	WindSpeed     float64
	Pressure      float64
	IconCode      string
	AQI           int
	MainPollutant string
}

type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client queries the IQAir nearest_city endpoint.
type Client struct {
	http   *resty.Client
	apiKey string
	logger *slog.Logger
}

func NewClient(log *slog.Logger, cfg ClientConfig) *Client {
	if log == nil {
		log = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		http:   resty.New().SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).SetTimeout(cfg.Timeout),
		apiKey: cfg.APIKey,
		logger: log.With(slog.String("service", "weather")),
	}
}

type nearestCityResponse struct {
	Status string `json:"status"`
	Data   struct {
		City    string `json:"city"`
		Country string `json:"country"`
		Current struct {
			Weather struct {
				Tp float64 `json:"tp"`
				Hu float64 `json:"hu"`
				Ws float64 `json:"ws"`
				Pr float64 `json:"pr"`
				Ic string  `json:"ic"`
			} `json:"weather"`
			Pollution struct {
				Aqius  int    `json:"aqius"`
				Maincn string `json:"maincn"`
			} `json:"pollution"`
		} `json:"current"`
	} `json:"data"`
}

// Nearest returns conditions at the monitoring station nearest to lat/lon.
func (c *Client) Nearest(ctx context.Context, lat, lon float64) (Conditions, error) {
	if c.apiKey == "" {
		return Conditions{}, fmt.Errorf("%w: api key not configured", ErrLookup)
	}
	var out nearestCityResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat": strconv.FormatFloat(lat, 'f', -1, 64),
			"lon": strconv.FormatFloat(lon, 'f', -1, 64),
			"key": c.apiKey,
		}).
		SetResult(&out).
		SetError(&out).
		Get("/v2/nearest_city")
	if err != nil {
		return Conditions{}, fmt.Errorf("%w: %v", ErrLookup, err)
	}
	if resp.IsError() || out.Status != "success" {
		c.logger.Warn("nearest city lookup rejected",
			slog.Int("status", resp.StatusCode()),
			slog.String("api_status", out.Status),
		)
		return Conditions{}, fmt.Errorf("%w: status %d %q", ErrLookup, resp.StatusCode(), out.Status)
	}

	w, p := out.Data.Current.Weather, out.Data.Current.Pollution
	return Conditions{
		City:          out.Data.City,
		Country:       out.Data.Country,
		Temperature:   w.Tp,
		Humidity:      w.Hu,
		WindSpeed:     w.Ws,
		Pressure:      w.Pr,
		IconCode:      w.Ic,
		AQI:           p.Aqius,
		MainPollutant: p.Maincn,
	}, nil
}
