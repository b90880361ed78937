package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"ai-infobot/internal/reply"
)

var cityPattern = regexp.MustCompile(`(?i)(?:weather|whether)\s*(?:in\s+)?([a-zA-Z\s]+)`)

// ExtractCity pulls the alphabetic words following "weather"/"whether"
// (optionally after "in") out of the utterance, or returns fallback.
func ExtractCity(utterance, fallback string) string {
	m := cityPattern.FindStringSubmatch(utterance)
	if m == nil {
		return fallback
	}
	city := strings.TrimSpace(m[1])
	if city == "" {
		return fallback
	}
	return city
}

// statusCode accepts both 200 and "404": OpenWeatherMap uses either.
type statusCode int

func (c *statusCode) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("cod: %w", err)
		}
		n = json.Number(s)
	}
	v, err := strconv.Atoi(n.String())
	if err != nil {
		return fmt.Errorf("cod: %w", err)
	}
	*c = statusCode(v)
	return nil
}

type weatherResponse struct {
	Cod     statusCode `json:"cod"`
	Message string     `json:"message"`
	Main    struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

type Weather struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	defaultCity string
}

func NewWeather(client *http.Client, baseURL, apiKey, defaultCity string) *Weather {
	return &Weather{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, defaultCity: defaultCity}
}

// Lookup reports current conditions for the city named in the utterance.
func (w *Weather) Lookup(ctx context.Context, utterance string) reply.Result {
	city := ExtractCity(utterance, w.defaultCity)

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", w.apiKey)
	q.Set("units", "metric")

	var res weatherResponse
	if err := getJSON(ctx, w.client, w.baseURL+"/data/2.5/weather?"+q.Encode(), &res); err != nil {
		return reply.Failure(reply.KindTransport, err.Error(), fmt.Sprintf("⚠️ Error fetching weather: %v", err))
	}
	if res.Cod != 200 {
		msg := res.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return reply.Failure(reply.KindProvider, msg, fmt.Sprintf("❌ Couldn't fetch weather for %s. API message: %s", city, msg))
	}
	if len(res.Weather) == 0 {
		err := fmt.Errorf("no conditions reported for %s", city)
		return reply.Failure(reply.KindTransport, err.Error(), fmt.Sprintf("⚠️ Error fetching weather: %v", err))
	}

	temp := strconv.FormatFloat(res.Main.Temp, 'f', -1, 64)
	return reply.Success(fmt.Sprintf("🌤️ Weather in %s: %s°C, %s", city, temp, res.Weather[0].Description))
}
