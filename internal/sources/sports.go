package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ai-infobot/internal/reply"
)

const maxSports = 5

type sportsResponse struct {
	Sports []struct {
		StrSport string `json:"strSport"`
	} `json:"sports"`
}

type Sports struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewSports(client *http.Client, baseURL, apiKey string) *Sports {
	return &Sports{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// Popular lists sport names from TheSportsDB. The endpoint has no status
// field, so only request and decoding failures are reported.
func (s *Sports) Popular(ctx context.Context) reply.Result {
	endpoint := fmt.Sprintf("%s/api/v1/json/%s/all_sports.php", s.baseURL, url.PathEscape(s.apiKey))

	var res sportsResponse
	if err := getJSON(ctx, s.client, endpoint, &res); err != nil {
		return reply.Failure(reply.KindTransport, err.Error(), fmt.Sprintf("⚠️ Error fetching sports: %v", err))
	}

	names := make([]string, 0, maxSports)
	for i, sp := range res.Sports {
		if i == maxSports {
			break
		}
		names = append(names, sp.StrSport)
	}
	return reply.Success(bulleted("🏅 Popular Sports:", names))
}
