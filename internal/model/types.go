package model

import (
	"slices"
	"time"
)

// Asset is one row of the market listing as served by the backend.
// ExternalId is the stable identifier shared by favorites, holdings,
// alerts and history lookups; it is unique within a snapshot.
type Asset struct {
	ExternalId    string  `json:"externalId"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"currentPrice"`
	MarketCap     float64 `json:"marketCap"`
	MarketCapRank int     `json:"marketCapRank"`
	ImageUrl      string  `json:"imageUrl"`
}

// Snapshot is the full listing of one successful poll. It is never
// mutated after creation; the poller replaces it wholesale.
type Snapshot struct {
	Assets    []Asset
	FetchedAt time.Time
}

// RawPoint is a history entry as decoded off the wire. Either field may
// be absent; normalization drops such points.
type RawPoint struct {
	Ts    *int64   `json:"ts"`
	Price *float64 `json:"price"`
}

// HistoryPoint is a normalized history entry. Series are kept ordered
// ascending by Ts.
type HistoryPoint struct {
	Ts    int64   `json:"ts"`
	Price float64 `json:"price"`
}

type Holding struct {
	ExternalId string  `json:"externalId"`
	Quantity   float64 `json:"quantity"`
}

type Alert struct {
	ExternalId    string   `json:"externalId"`
	ThresholdHigh *float64 `json:"thresholdHigh,omitempty"`
	ThresholdLow  *float64 `json:"thresholdLow,omitempty"`
}

// Profile is the minimal identity kept client side next to the token.
type Profile struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

const AdminRole = "ROLE_ADMIN"

func (p Profile) IsAdmin() bool {
	return slices.Contains(p.Roles, AdminRole)
}

// AdminUser is one row of the admin user listing.
type AdminUser struct {
	Id       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Balance  float64  `json:"balance"`
	Roles    []string `json:"roles"`
	Enabled  bool     `json:"enabled"`
}

func (u AdminUser) IsAdmin() bool {
	return slices.Contains(u.Roles, AdminRole)
}
