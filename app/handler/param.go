package handler

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func validCheck(param any) error {
	return validate.Struct(param)
}

/***************************************************************** request ****************************************************************/

type SortReq struct {
	Key string `json:"key" validate:"required"`
}

type PageReq struct {
	Page int `json:"page" validate:"required,min=1"`
}

type FilterReq struct {
	FavoritesOnly bool `json:"favoritesOnly"`
}

type TradeReq struct {
	ExternalId string `json:"externalId" validate:"required"`
	Side       string `json:"side" validate:"required,oneof=buy sell"`
	Qty        int    `json:"qty" validate:"required,min=1"`
}

type AddFundsReq struct {
	Amount string `json:"amount" validate:"required"`
}

type AlertReq struct {
	ExternalId    string   `json:"externalId" validate:"required"`
	ThresholdHigh *float64 `json:"thresholdHigh"`
	ThresholdLow  *float64 `json:"thresholdLow"`
}

type IntervalReq struct {
	Interval string `json:"interval" validate:"required"`
}

type CompareReq struct {
	ExternalId string `json:"externalId"`
}

type AdminFundsReq struct {
	Amount string `json:"amount" validate:"required"`
	Mode   string `json:"mode" validate:"omitempty,oneof=add remove"`
}

type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterReq struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

/***************************************************************** response ****************************************************************/

type dashboardResponse struct {
	Assets        []assetResponse `json:"assets"`
	Page          int             `json:"page"`
	TotalPages    int             `json:"totalPages"`
	Filtered      int             `json:"filtered"`
	SortKey       string          `json:"sortKey"`
	SortDirection string          `json:"sortDirection"`
	FavoritesOnly bool            `json:"favoritesOnly"`
	Loading       bool            `json:"loading"`
	Error         string          `json:"error,omitempty"`
	LastUpdate    int64           `json:"lastUpdate,omitempty"`
}

type assetResponse struct {
	ExternalId    string  `json:"externalId"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"currentPrice"`
	MarketCap     float64 `json:"marketCap"`
	MarketCapRank int     `json:"marketCapRank"`
	ImageUrl      string  `json:"imageUrl"`
	Favorite      bool    `json:"favorite"`
}

type balanceResponse struct {
	Balance float64 `json:"balance"`
}

type holdingResponse struct {
	ExternalId string  `json:"externalId"`
	Quantity   float64 `json:"quantity"`
}

type pointResponse struct {
	Ts    int64   `json:"ts"`
	Price float64 `json:"price"`
}

type domainResponse struct {
	Auto bool    `json:"auto"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

type favoriteChartResponse struct {
	Asset    assetResponse   `json:"asset"`
	Series   []pointResponse `json:"series"`
	Domain   domainResponse  `json:"domain"`
	Owned    float64         `json:"owned"`
	HasAlert bool            `json:"hasAlert"`
}

type chartResponse struct {
	ExternalId    string          `json:"externalId"`
	State         string          `json:"state"`
	Series        []pointResponse `json:"series"`
	Domain        domainResponse  `json:"domain"`
	Interval      string          `json:"interval"`
	Error         string          `json:"error,omitempty"`
	CompareId     string          `json:"compareId,omitempty"`
	CompareState  string          `json:"compareState"`
	CompareSeries []pointResponse `json:"compareSeries,omitempty"`
	CompareError  string          `json:"compareError,omitempty"`
}

type adminUserResponse struct {
	Id       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Balance  float64  `json:"balance"`
	Roles    []string `json:"roles"`
	Enabled  bool     `json:"enabled"`
	Admin    bool     `json:"admin"`
}

type profileResponse struct {
	Username      string   `json:"username"`
	Roles         []string `json:"roles"`
	Admin         bool     `json:"admin"`
	Authenticated bool     `json:"authenticated"`
}
