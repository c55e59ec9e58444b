package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/okian/neuroshop/internal/domain/model"
	"github.com/okian/neuroshop/pkg/logger"
)

// Scraper fetches a store's search page over plain HTTP and parses the results.
type Scraper struct {
	site       Site
	userAgent  string
	timeout    time.Duration
	maxResults int
	log        logger.Logger
}

// New creates a scraper for site.
func New(site Site, opts ...Option) *Scraper {
	s := &Scraper{
		site:       site,
		userAgent:  defaultUserAgent,
		timeout:    defaultTimeout,
		maxResults: defaultMaxResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.NamedOrNop("scrape." + site.Name)
	}
	return s
}

// Name implements provider.Provider.
func (s *Scraper) Name() string { return s.site.Name }

func (s *Scraper) collector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.AllowedDomains(s.site.Domains...),
		colly.UserAgent(s.userAgent),
		colly.StdlibContext(ctx),
	)
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	c.SetRequestTimeout(timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-IN,en;q=0.9")
	})
	return c
}

// FetchOffers implements provider.Provider. A page with no recognizable
// results yields an empty slice and no error.
func (s *Scraper) FetchOffers(ctx context.Context, term string) ([]model.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := s.collector(ctx)

	var offers []model.Offer
	c.OnHTML(s.site.Item, func(e *colly.HTMLElement) {
		if len(offers) >= s.maxResults {
			return
		}
		if o, ok := ExtractOne(e.DOM, s.site, e.Request.URL); ok {
			offers = append(offers, o)
		}
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = fmt.Errorf("%s: status %d: %w", s.site.Name, r.StatusCode, err)
	})

	target := s.site.URL(term)
	s.log.Debug(ctx, "visiting search page", logger.String("url", target))
	if err := c.Visit(target); err != nil && visitErr == nil {
		visitErr = fmt.Errorf("%s: visit: %w", s.site.Name, err)
	}
	c.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if visitErr != nil {
		return nil, visitErr
	}

	s.log.Debug(ctx, "parsed search page",
		logger.String("term", term),
		logger.Int("offers", len(offers)),
	)
	return offers, nil
}
