package products

import "time"

// EndpointConfig is the per-product prediction endpoint configuration.
// AccessTokenKey names the env var holding the product's bearer token so
// secrets never live in the catalog itself.
type EndpointConfig struct {
	PredictURL     string
	AccessTokenKey string
	StoresPhoto    bool
}

// Product is a diagnostic service exposed through the gateway.
type Product struct {
	ID               string
	Name             string
	Picture          string
	ShortDescription string
	FullDescription  string
	UsageDescription string
	IsActive         bool
	Endpoint         EndpointConfig
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Summary is the list projection exposed to the catalog listing.
type Summary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Picture          string `json:"picture"`
	ShortDescription string `json:"short_description"`
	IsActive         bool   `json:"is_active"`
}

// Detail is the single-product response; endpoint config is never serialized.
type Detail struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Picture          string `json:"picture"`
	ShortDescription string `json:"short_description"`
	FullDescription  string `json:"full_description"`
	UsageDescription string `json:"usage_description"`
	IsActive         bool   `json:"is_active"`
}

func (p Product) summary() Summary {
	return Summary{
		ID:               p.ID,
		Name:             p.Name,
		Picture:          p.Picture,
		ShortDescription: p.ShortDescription,
		IsActive:         p.IsActive,
	}
}

func (p Product) detail() Detail {
	return Detail{
		ID:               p.ID,
		Name:             p.Name,
		Picture:          p.Picture,
		ShortDescription: p.ShortDescription,
		FullDescription:  p.FullDescription,
		UsageDescription: p.UsageDescription,
		IsActive:         p.IsActive,
	}
}
