package hibp

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type status struct {
	requests         atomic.Uint64
	requestTimeTotal atomic.Uint64
	cdnHits          atomic.Uint64
	cacheHits        atomic.Uint64
	failures         atomic.Uint64
	exposed          atomic.Uint64
	start            time.Time
}

func newStatus() *status {
	return &status{start: time.Now()}
}

func (s *status) RequestComplete(res *http.Response, millis int64) {
	s.requestTimeTotal.Add(uint64(millis))
	s.requests.Add(1)

	if res.Header.Get("CF-Cache-Status") == "HIT" {
		s.cdnHits.Add(1)
	}
}

func (s *status) CacheHit() {
	s.cacheHits.Add(1)
}

func (s *status) Failure() {
	s.failures.Add(1)
}

func (s *status) Exposed() {
	s.exposed.Add(1)
}

func (s *status) Summary() {
	requests := s.requests.Load()
	average := 0.0
	if requests > 0 {
		average = float64(s.requestTimeTotal.Load()) / float64(requests)
	}

	p := message.NewPrinter(language.English)
	log.Debug().Msgf("made %s range requests in %v. Average response time %.2f ms",
		p.Sprintf("%d", requests), time.Since(s.start), average)
	log.Debug().Msgf("local cache hits: %s, CDN cache hits: %s, failures: %s, exposed: %s",
		p.Sprintf("%d", s.cacheHits.Load()), p.Sprintf("%d", s.cdnHits.Load()),
		p.Sprintf("%d", s.failures.Load()), p.Sprintf("%d", s.exposed.Load()))
}
