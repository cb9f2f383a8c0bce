package scrape

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// amazonPageLimit bounds how many review pages are walked per call.
const amazonPageLimit = 10

var asinRE = regexp.MustCompile(`/dp/([A-Z0-9]{10})`)
var numberRE = regexp.MustCompile(`(\d+\.?\d*)`)

// AmazonScraper extracts reviews from Amazon product review pages.
type AmazonScraper struct {
	fetcher *Fetcher
}

// NewAmazonScraper builds the Amazon scraper over a shared fetcher.
func NewAmazonScraper(fetcher *Fetcher) *AmazonScraper {
	return &AmazonScraper{fetcher: fetcher}
}

// Platform implements Scraper.
func (a *AmazonScraper) Platform() string { return "amazon" }

// Domains implements Scraper.
func (a *AmazonScraper) Domains() []string {
	return []string{
		"amazon.com", "amazon.co.uk", "amazon.ca", "amazon.de",
		"amazon.fr", "amazon.it", "amazon.es", "amazon.in",
		"amazon.com.au",
	}
}

// ScrapeReviews implements Scraper. It walks the paginated review
// listing derived from the product URL's ASIN.
func (a *AmazonScraper) ScrapeReviews(ctx context.Context, url string, maxReviews int) ([]Review, error) {
	if maxReviews <= 0 {
		maxReviews = 100
	}

	base, err := a.reviewsURL(url)
	if err != nil {
		return nil, err
	}

	var reviews []Review
	for page := 1; len(reviews) < maxReviews && page <= amazonPageLimit; page++ {
		body, err := a.fetcher.Get(ctx, fmt.Sprintf("%s&pageNumber=%d", base, page))
		if err != nil {
			if len(reviews) > 0 {
				// Partial result beats none on a mid-walk failure.
				break
			}
			return nil, err
		}

		pageReviews, err := a.extractReviews(body, url)
		if err != nil {
			return reviews, err
		}
		if len(pageReviews) == 0 {
			break
		}
		reviews = append(reviews, pageReviews...)
		if len(pageReviews) < 10 {
			break
		}
	}

	if len(reviews) > maxReviews {
		reviews = reviews[:maxReviews]
	}
	return reviews, nil
}

// reviewsURL derives the review listing URL from a product URL.
func (a *AmazonScraper) reviewsURL(productURL string) (string, error) {
	m := asinRE.FindStringSubmatch(productURL)
	if m == nil {
		return "", fmt.Errorf("no ASIN found in %s", productURL)
	}
	return fmt.Sprintf("https://www.amazon.com/product-reviews/%s/?ie=UTF8&reviewerType=all_reviews", m[1]), nil
}

// extractReviews pulls every review container out of one listing page.
func (a *AmazonScraper) extractReviews(body []byte, sourceURL string) ([]Review, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing review page: %w", err)
	}

	var reviews []Review
	for _, container := range findAll(doc, withDataHook("review")) {
		review, ok := a.extractReview(container, sourceURL)
		if ok {
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

func (a *AmazonScraper) extractReview(container *html.Node, sourceURL string) (Review, bool) {
	text := nodeText(findFirst(container, withDataHook("review-body")))
	if len(strings.TrimSpace(text)) < 10 {
		return Review{}, false
	}

	review := Review{
		Text:      text,
		Author:    nodeText(findFirst(container, withClass("a-profile-name"))),
		Date:      nodeText(findFirst(container, withDataHook("review-date"))),
		Title:     nodeText(findFirst(container, withDataHook("review-title"))),
		Verified:  findFirst(container, withDataHook("avp-badge")) != nil,
		SourceURL: sourceURL,
		Platform:  "amazon",
	}

	if star := findFirst(container, withClassPrefix("a-icon-star")); star != nil {
		if m := numberRE.FindString(nodeText(star)); m != "" {
			if rating, err := strconv.ParseFloat(m, 64); err == nil {
				review.Rating = rating
			}
		}
	}

	if helpful := findFirst(container, withDataHook("helpful-vote-statement")); helpful != nil {
		if m := numberRE.FindString(nodeText(helpful)); m != "" {
			if votes, err := strconv.Atoi(strings.SplitN(m, ".", 2)[0]); err == nil {
				review.HelpfulVotes = votes
			}
		}
	}

	return review, true
}

// HTML walking helpers over x/net/html nodes.

type nodePredicate func(*html.Node) bool

func withDataHook(value string) nodePredicate {
	return func(n *html.Node) bool {
		return attrVal(n, "data-hook") == value
	}
}

func withClass(name string) nodePredicate {
	return func(n *html.Node) bool {
		for _, c := range strings.Fields(attrVal(n, "class")) {
			if c == name {
				return true
			}
		}
		return false
	}
}

func withClassPrefix(prefix string) nodePredicate {
	return func(n *html.Node) bool {
		for _, c := range strings.Fields(attrVal(n, "class")) {
			if strings.HasPrefix(c, prefix) {
				return true
			}
		}
		return false
	}
}

func attrVal(n *html.Node, key string) string {
	if n.Type != html.ElementNode {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func findAll(root *html.Node, pred nodePredicate) []*html.Node {
	var matches []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			matches = append(matches, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return matches
}

func findFirst(root *html.Node, pred nodePredicate) *html.Node {
	var walk func(*html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if pred(n) {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(root)
}

// nodeText collects the text content under a node with normalized
// whitespace. Nil-safe.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
