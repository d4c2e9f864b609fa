package geo

import (
	"context"
	"fmt"
	"net"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
	"github.com/oschwald/geoip2-golang"
)

// CountryLookup geolocates an IP address. *geoip2.Reader satisfies it.
type CountryLookup interface {
	Country(ip net.IP) (*geoip2.Country, error)
}

// OpenCountryDB opens a MaxMind GeoLite2/GeoIP2 country database.
func OpenCountryDB(path string) (*geoip2.Reader, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %q: %w", path, err)
	}
	return reader, nil
}

// CurrencyResolver infers a currency from the country the edge proxy
// reported for the request, else from the client IP.
type CurrencyResolver struct {
	fallback  domain.Currency
	countries CountryLookup
}

// NewCurrencyResolver uses fallback for unknown countries. An invalid
// fallback falls back to domain.FallbackCurrency. countries may be nil,
// in which case only the request headers are used.
func NewCurrencyResolver(fallback string, countries CountryLookup) *CurrencyResolver {
	c := domain.Currency(fallback)
	if !c.IsValid() {
		c = domain.FallbackCurrency
	}
	return &CurrencyResolver{fallback: c, countries: countries}
}

func (r *CurrencyResolver) Resolve(_ context.Context, meta usecase.RequestMeta) domain.Currency {
	if c, ok := domain.CurrencyForCountry(meta.Country); ok {
		return c
	}
	if c, ok := domain.CurrencyForCountry(r.countryOf(meta.ClientIP)); ok {
		return c
	}
	return r.fallback
}

func (r *CurrencyResolver) countryOf(clientIP string) string {
	if r.countries == nil {
		return ""
	}
	ip := net.ParseIP(clientIP)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() {
		return ""
	}
	record, err := r.countries.Country(ip)
	if err != nil || record == nil {
		return ""
	}
	return record.Country.IsoCode
}
