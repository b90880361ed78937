package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ai-infobot/internal/reply"
)

const maxHeadlines = 5

type newsResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

type News struct {
	client  *http.Client
	baseURL string
	apiKey  string
	country string
}

func NewNews(client *http.Client, baseURL, apiKey, country string) *News {
	return &News{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, country: country}
}

// Headlines lists the top regional headlines. It does not look at the utterance.
func (n *News) Headlines(ctx context.Context) reply.Result {
	q := url.Values{}
	q.Set("country", n.country)
	q.Set("apiKey", n.apiKey)

	var res newsResponse
	if err := getJSON(ctx, n.client, n.baseURL+"/v2/top-headlines?"+q.Encode(), &res); err != nil {
		return reply.Failure(reply.KindTransport, err.Error(), fmt.Sprintf("⚠️ Error fetching news: %v", err))
	}
	if res.Status != "ok" {
		msg := res.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return reply.Failure(reply.KindProvider, msg, fmt.Sprintf("❌ Couldn't fetch news. API message: %s", msg))
	}

	titles := make([]string, 0, maxHeadlines)
	for i, a := range res.Articles {
		if i == maxHeadlines {
			break
		}
		titles = append(titles, a.Title)
	}
	return reply.Success(bulleted("📰 Top News:", titles))
}

func bulleted(header string, items []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(it)
	}
	return b.String()
}
