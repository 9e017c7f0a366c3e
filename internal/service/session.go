package service

import (
	"github.com/patrickmn/go-cache"

	"github.com/Oskar181/ethereum-wallet-analyzer/internal/domain/entity"
)

// Session memoizes metadata and price resolutions for the duration of one
// analysis run. Tokens repeat across the wallets of a batch; resolving each
// one once keeps the sequential pipeline from re-querying providers. A
// session is created per run and discarded with the response, so nothing
// leaks across requests.
type Session struct {
	metadata *cache.Cache
	prices   *cache.Cache
}

// NewSession creates an empty per-run resolution memo.
func NewSession() *Session {
	return &Session{
		metadata: cache.New(cache.NoExpiration, 0),
		prices:   cache.New(cache.NoExpiration, 0),
	}
}

func (s *Session) metadataFor(token entity.Address) (entity.TokenDescriptor, bool) {
	if v, ok := s.metadata.Get(token.String()); ok {
		return v.(entity.TokenDescriptor), true
	}
	return entity.TokenDescriptor{}, false
}

func (s *Session) storeMetadata(desc entity.TokenDescriptor) {
	s.metadata.Set(desc.Address.String(), desc, cache.NoExpiration)
}

func (s *Session) priceFor(token entity.Address) (entity.PriceQuote, bool) {
	if v, ok := s.prices.Get(token.String()); ok {
		return v.(entity.PriceQuote), true
	}
	return entity.PriceQuote{}, false
}

func (s *Session) storePrice(quote entity.PriceQuote) {
	s.prices.Set(quote.Token.String(), quote, cache.NoExpiration)
}
