package domain

import (
	"math"
	"strings"
)

const (
	maxCityLen       = 100
	maxCountryLen    = 100
	maxAddressLen    = 255
	maxPostalCodeLen = 20

	earthRadiusKm = 6371.0
)

// LocationParams carries the raw inputs for a venue location.
type LocationParams struct {
	Address    string
	City       string
	Country    string
	PostalCode string
	Latitude   *float64
	Longitude  *float64
}

// Location is an immutable venue address with optional coordinates.
type Location struct {
	address    string
	city       string
	country    string
	postalCode string
	latitude   float64
	longitude  float64
	hasCoords  bool
}

// NewLocation validates and builds a Location.
func NewLocation(p LocationParams) (Location, error) {
	city := strings.TrimSpace(p.City)
	country := strings.TrimSpace(p.Country)
	address := strings.TrimSpace(p.Address)
	postal := strings.TrimSpace(p.PostalCode)

	switch {
	case city == "":
		return Location{}, ErrCityRequired
	case len(city) > maxCityLen:
		return Location{}, ErrCityTooLong
	case country == "":
		return Location{}, ErrCountryRequired
	case len(country) > maxCountryLen:
		return Location{}, ErrCountryTooLong
	case len(address) > maxAddressLen:
		return Location{}, ErrAddressTooLong
	case len(postal) > maxPostalCodeLen:
		return Location{}, ErrPostalCodeTooLong
	}

	loc := Location{
		address:    address,
		city:       city,
		country:    country,
		postalCode: postal,
	}

	if (p.Latitude == nil) != (p.Longitude == nil) {
		return Location{}, ErrPartialCoordinates
	}
	if p.Latitude != nil {
		if *p.Latitude < -90 || *p.Latitude > 90 {
			return Location{}, ErrLatitudeOutOfRange
		}
		if *p.Longitude < -180 || *p.Longitude > 180 {
			return Location{}, ErrLongitudeOutOfRange
		}
		loc.latitude = *p.Latitude
		loc.longitude = *p.Longitude
		loc.hasCoords = true
	}

	return loc, nil
}

func (l Location) Address() string    { return l.address }
func (l Location) City() string       { return l.city }
func (l Location) Country() string    { return l.country }
func (l Location) PostalCode() string { return l.postalCode }

// Coordinates returns the latitude/longitude pair when one was provided.
func (l Location) Coordinates() (lat, lng float64, ok bool) {
	return l.latitude, l.longitude, l.hasCoords
}

func (l Location) HasCoordinates() bool {
	return l.hasCoords
}

// WithCoordinates returns a copy of the location with coordinates set.
func (l Location) WithCoordinates(lat, lng float64) (Location, error) {
	return NewLocation(LocationParams{
		Address:    l.address,
		City:       l.city,
		Country:    l.country,
		PostalCode: l.postalCode,
		Latitude:   &lat,
		Longitude:  &lng,
	})
}

// Format renders the location as a single comma-separated line.
func (l Location) Format() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{l.address, l.city, l.postalCode, l.country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// DistanceKm computes the great-circle distance to another location. Both
// locations must carry coordinates.
func (l Location) DistanceKm(other Location) (float64, error) {
	if !l.hasCoords || !other.hasCoords {
		return 0, ErrNoCoordinates
	}

	lat1 := l.latitude * math.Pi / 180
	lat2 := other.latitude * math.Pi / 180
	dLat := (other.latitude - l.latitude) * math.Pi / 180
	dLng := (other.longitude - l.longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c, nil
}

func (l Location) Equals(other Location) bool {
	return l == other
}
