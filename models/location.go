package models

import "strings"

// GeoPoint is a WGS84 coordinate
type GeoPoint struct {
	Lat float64 `json:"lat" dynamodbav:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" dynamodbav:"lng" validate:"gte=-180,lte=180"`
}

// AdminUnit is a Vietnamese administrative unit (province, district or ward)
type AdminUnit struct {
	Code string `json:"code" dynamodbav:"code"`
	Name string `json:"name" dynamodbav:"name"`
}

// Address is a pickup or delivery address
type Address struct {
	Province AdminUnit `json:"province" dynamodbav:"province" validate:"required"`
	District AdminUnit `json:"district" dynamodbav:"district"`
	Ward     AdminUnit `json:"ward" dynamodbav:"ward"`
	Street   string    `json:"street" dynamodbav:"street" validate:"required,max=300"`
	Point    *GeoPoint `json:"point,omitempty" dynamodbav:"point,omitempty"`
}

// Text renders the address from the most specific component to the least specific one.
func (a Address) Text() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.Ward.Name, a.District.Name, a.Province.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// RouteGeometry is a GeoJSON LineString
type RouteGeometry struct {
	Type        string       `json:"type" dynamodbav:"type"`
	Coordinates [][2]float64 `json:"coordinates" dynamodbav:"coordinates"`
}

// Route is the output of the distance resolver
type Route struct {
	DistanceKm  float64       `json:"distanceKm"`
	DurationMin float64       `json:"durationMin"`
	Geometry    RouteGeometry `json:"geometry"`
	Source      string        `json:"source"` // "osrm" or "estimate"
}

// GeocodeResult is the output of the geocoder
type GeocodeResult struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Label     string  `json:"label"`
	Estimated bool    `json:"estimated"`
}

type GeocodeRequest struct {
	Address string    `json:"address" validate:"required,max=500"`
	Focus   *GeoPoint `json:"focus,omitempty"`
}

type DistanceRequest struct {
	Origin      GeoPoint `json:"origin"`
	Destination GeoPoint `json:"destination"`
}
