package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ai-infobot/internal/reply"
)

var (
	ErrNotFound  = errors.New("does not match any pages")
	ErrAmbiguous = errors.New("may refer to several pages")
)

const summarySentences = 2

type wikiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type wikiSearchResponse struct {
	Error *wikiError `json:"error"`
	Query struct {
		SearchInfo struct {
			Suggestion string `json:"suggestion"`
		} `json:"searchinfo"`
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wikiExtractResponse struct {
	Error *wikiError `json:"error"`
	Query struct {
		Pages []struct {
			Title     string            `json:"title"`
			Missing   bool              `json:"missing"`
			Extract   string            `json:"extract"`
			PageProps map[string]string `json:"pageprops"`
		} `json:"pages"`
	} `json:"query"`
}

// Encyclopedia resolves a free-text query to a Wikipedia article and returns
// the first sentences of its plain-text extract.
type Encyclopedia struct {
	client  *http.Client
	baseURL string
}

func NewEncyclopedia(client *http.Client, baseURL string) *Encyclopedia {
	return &Encyclopedia{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Lookup searches with the utterance exactly as typed, "who is" included.
func (e *Encyclopedia) Lookup(ctx context.Context, utterance string) reply.Result {
	summary, err := e.Summary(ctx, utterance)
	if err != nil {
		kind := reply.KindTransport
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAmbiguous) {
			kind = reply.KindNotFound
		}
		return reply.Failure(kind, err.Error(), fmt.Sprintf("❌ No info found: %v", err))
	}
	return reply.Success("📖 " + summary)
}

func (e *Encyclopedia) Summary(ctx context.Context, query string) (string, error) {
	title, err := e.resolveTitle(ctx, query)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("action", "query")
	q.Set("prop", "extracts|pageprops")
	q.Set("ppprop", "disambiguation")
	q.Set("exsentences", fmt.Sprint(summarySentences))
	q.Set("explaintext", "1")
	q.Set("redirects", "1")
	q.Set("titles", title)
	q.Set("format", "json")
	q.Set("formatversion", "2")

	var res wikiExtractResponse
	if err := getJSON(ctx, e.client, e.baseURL+"/w/api.php?"+q.Encode(), &res); err != nil {
		return "", err
	}
	if res.Error != nil {
		return "", fmt.Errorf("wikipedia: %s: %s", res.Error.Code, res.Error.Info)
	}
	if len(res.Query.Pages) == 0 || res.Query.Pages[0].Missing {
		return "", fmt.Errorf("page id %q %w", title, ErrNotFound)
	}
	page := res.Query.Pages[0]
	if _, ok := page.PageProps["disambiguation"]; ok {
		return "", fmt.Errorf("%q %w", page.Title, ErrAmbiguous)
	}
	extract := strings.TrimSpace(page.Extract)
	if extract == "" {
		return "", fmt.Errorf("page id %q %w", page.Title, ErrNotFound)
	}
	return extract, nil
}

// resolveTitle prefers the search suggestion over the top hit.
func (e *Encyclopedia) resolveTitle(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", query)
	q.Set("srlimit", "1")
	q.Set("srinfo", "suggestion")
	q.Set("srprop", "")
	q.Set("format", "json")
	q.Set("formatversion", "2")

	var res wikiSearchResponse
	if err := getJSON(ctx, e.client, e.baseURL+"/w/api.php?"+q.Encode(), &res); err != nil {
		return "", err
	}
	if res.Error != nil {
		return "", fmt.Errorf("wikipedia: %s: %s", res.Error.Code, res.Error.Info)
	}
	if s := res.Query.SearchInfo.Suggestion; s != "" {
		return s, nil
	}
	if len(res.Query.Search) == 0 {
		return "", fmt.Errorf("page id %q %w", query, ErrNotFound)
	}
	return res.Query.Search[0].Title, nil
}
