package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/money"
)

// maxEnrichBody caps how much of a scraped page is read. Listing pages are
// well under this; anything bigger is not worth parsing.
const maxEnrichBody = 4 << 20

// FetchStrategy is one way of retrieving a vessel listing page. Strategies
// are tried in order; the first success short-circuits the rest.
type FetchStrategy struct {
	// Name identifies the strategy in logs.
	Name string

	// BuildURL maps the listing URL to the URL actually requested
	// (identity for a direct fetch, wrapped for a proxy fetch).
	BuildURL func(target string) string
}

// DirectFetch requests the listing URL as-is.
func DirectFetch() FetchStrategy {
	return FetchStrategy{
		Name:     "direct",
		BuildURL: func(target string) string { return target },
	}
}

// ProxyFetch requests the listing through a CORS-proxy-style prefix that
// takes the escaped target as its final component.
func ProxyFetch(prefix string) FetchStrategy {
	return FetchStrategy{
		Name:     prefix,
		BuildURL: func(target string) string { return prefix + url.QueryEscape(target) },
	}
}

// EnrichService proposes vessel-option field values scraped from a pasted
// listing URL. Best-effort only: extraction misses are silently omitted and
// a total fetch failure is a typed domain.ErrUnavailable, never a crash.
type EnrichService struct {
	client     *http.Client
	strategies []FetchStrategy
}

// NewEnrichService constructs an EnrichService trying the given strategies
// in order. Pass a client with a timeout.
func NewEnrichService(client *http.Client, strategies []FetchStrategy) *EnrichService {
	return &EnrichService{client: client, strategies: strategies}
}

// Suggest fetches the listing page and extracts whatever fields it can
// recognize. Fields it cannot find stay zero and will not overwrite user
// input when applied.
func (s *EnrichService) Suggest(ctx context.Context, listingURL string) (domain.YachtSuggestion, error) {
	if strings.TrimSpace(listingURL) == "" {
		return domain.YachtSuggestion{}, fmt.Errorf("service.EnrichService.Suggest: %w: url is required", domain.ErrValidation)
	}

	html, err := s.fetchPage(ctx, listingURL)
	if err != nil {
		return domain.YachtSuggestion{}, fmt.Errorf("service.EnrichService.Suggest: %w", err)
	}

	suggestion, err := ExtractFields(html)
	if err != nil {
		return domain.YachtSuggestion{}, fmt.Errorf("service.EnrichService.Suggest: %w", err)
	}
	suggestion.Link = listingURL
	return suggestion, nil
}

// fetchPage tries each strategy in order and returns the first successful
// body. All-failure yields domain.ErrUnavailable.
func (s *EnrichService) fetchPage(ctx context.Context, target string) (string, error) {
	for _, strat := range s.strategies {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, strat.BuildURL(target), nil)
		if err != nil {
			slog.WarnContext(ctx, "enrichment fetch skipped", "strategy", strat.Name, "error", err)
			continue
		}

		resp, err := s.client.Do(req)
		if err != nil {
			slog.WarnContext(ctx, "enrichment fetch failed", "strategy", strat.Name, "error", err)
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxEnrichBody))
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || readErr != nil || len(body) == 0 {
			slog.WarnContext(ctx, "enrichment fetch failed", "strategy", strat.Name, "status", resp.StatusCode)
			continue
		}
		return string(body), nil
	}
	return "", domain.ErrUnavailable
}

var (
	priceRe   = regexp.MustCompile(`([\d\s]+[,.]\d{2})`)
	yachtIDRe = regexp.MustCompile(`yacht/(\d+)/`)
	numberRe  = regexp.MustCompile(`(\d+)`)
)

// capacityLabels are the <dt> labels (Czech and English) that precede a
// berth/guest count on known listing pages.
var capacityLabels = []string{"počet lůžek", "lůžek", "berths", "guests", "capacity"}

// ExtractFields pulls vessel-option fields out of a listing page using
// structural heuristics: first matching header, meta tag, or labelled row
// wins; anything not found is simply omitted. It never fails on missing
// structure — only on unparseable HTML.
func ExtractFields(html string) (domain.YachtSuggestion, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.YachtSuggestion{}, fmt.Errorf("parse listing html: %w", err)
	}

	var out domain.YachtSuggestion

	out.Name = strings.TrimSpace(doc.Find("h1.yacht-name-header").First().Text())

	if img, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		out.ImageURL = img
		// The image URL embeds the provider's yacht id, which addresses the
		// technical-specs page.
		if m := yachtIDRe.FindStringSubmatch(img); m != nil {
			out.DetailsLink = "https://ws.nausys.com/CBMS-external/rest/yacht/" + m[1] + "/html"
		}
	}

	if text := doc.Find(".price-after-discount").First().Text(); text != "" {
		if m := priceRe.FindStringSubmatch(text); m != nil {
			out.Price = money.ParseAmount(m[1])
		}
	}

	out.CharterPack = extractCharterPack(doc)
	out.Marina = extractMarina(doc)
	out.MaxGuests = extractCapacity(doc)

	return out, nil
}

// extractCharterPack finds a leaf node labelled "charter package" or
// "transit log" and reads the bold amount in the same row.
func extractCharterPack(doc *goquery.Document) float64 {
	var amount float64
	doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.Children().Length() != 0 {
			return true
		}
		text := strings.ToLower(sel.Text())
		if !strings.Contains(text, "charter package") && !strings.Contains(text, "transit log") {
			return true
		}
		row := sel.Closest(".row")
		if row.Length() == 0 {
			return true
		}
		if b := row.Find("b").First(); b.Length() > 0 {
			amount = money.ParseAmount(b.Text())
			return false
		}
		return true
	})
	return amount
}

// extractMarina finds a paragraph whose bold label mentions the marina and
// returns the text after the colon.
func extractMarina(doc *goquery.Document) string {
	var marina string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		label := strings.ToLower(p.Find("b").First().Text())
		if !strings.Contains(label, "marína") && !strings.Contains(label, "marina") && !strings.Contains(label, "port") {
			return true
		}
		text := p.Text()
		if idx := strings.Index(text, ":"); idx != -1 {
			marina = strings.TrimSpace(text[idx+1:])
			return false
		}
		return true
	})
	return marina
}

// extractCapacity finds a <dt> capacity label and reads the number from the
// following <dd>.
func extractCapacity(doc *goquery.Document) int {
	var capacity int
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		label := strings.ToLower(dt.Text())
		matched := false
		for _, want := range capacityLabels {
			if strings.Contains(label, want) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}
		dd := dt.NextFiltered("dd")
		if dd.Length() == 0 {
			return true
		}
		if m := numberRe.FindStringSubmatch(dd.Text()); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				capacity = n
				return false
			}
		}
		return true
	})
	return capacity
}

// ApplySuggestion merges scraped values into a draft. A suggested value wins
// only when the draft field is empty — user-entered values are never
// overwritten.
func ApplySuggestion(draft domain.Yacht, s domain.YachtSuggestion) domain.Yacht {
	if draft.Name == "" {
		draft.Name = s.Name
	}
	if draft.Link == "" {
		draft.Link = s.Link
	}
	if draft.DetailsLink == "" {
		draft.DetailsLink = s.DetailsLink
	}
	if draft.ImageURL == "" {
		draft.ImageURL = s.ImageURL
	}
	if draft.Price == 0 {
		draft.Price = s.Price
	}
	if draft.CharterPack == 0 {
		draft.CharterPack = s.CharterPack
	}
	if draft.Marina == "" {
		draft.Marina = s.Marina
	}
	if draft.MaxGuests == 0 {
		draft.MaxGuests = s.MaxGuests
	}
	return draft
}
