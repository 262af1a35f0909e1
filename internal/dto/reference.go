package dto

type CountryListItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	ISO3     string `json:"iso3"`
	DialCode string `json:"dialCode"`
	IsActive bool   `json:"isActive"`
}

type CountryDetail struct {
	CountryListItem
	Audit
}

type CreateCountryRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Code     string `json:"code" binding:"required,len=2,alpha"`
	ISO3     string `json:"iso3" binding:"required,len=3,alpha"`
	DialCode string `json:"dialCode" binding:"omitempty,max=10"`
	IsActive *bool  `json:"isActive"`
}

type UpdateCountryRequest = CreateCountryRequest

type CurrencyListItem struct {
	ID            int64  `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	DecimalPlaces int    `json:"decimalPlaces"`
	IsActive      bool   `json:"isActive"`
}

type CurrencyDetail struct {
	CurrencyListItem
	Audit
}

type CreateCurrencyRequest struct {
	Code          string `json:"code" binding:"required,len=3,alpha"`
	Name          string `json:"name" binding:"required,max=100"`
	Symbol        string `json:"symbol" binding:"omitempty,max=10"`
	DecimalPlaces *int   `json:"decimalPlaces" binding:"omitempty,gte=0,lte=4"`
	IsActive      *bool  `json:"isActive"`
}

type UpdateCurrencyRequest = CreateCurrencyRequest

type TimeZoneListItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	UTCOffset   string `json:"utcOffset"`
	IsActive    bool   `json:"isActive"`
}

type TimeZoneDetail struct {
	TimeZoneListItem
	Audit
}

type CreateTimeZoneRequest struct {
	Name        string `json:"name" binding:"required,max=64,iana_tz"`
	DisplayName string `json:"displayName" binding:"omitempty,max=150"`
	IsActive    *bool  `json:"isActive"`
}

type UpdateTimeZoneRequest = CreateTimeZoneRequest

type DateFormatListItem struct {
	ID        int64  `json:"id"`
	Pattern   string `json:"pattern"`
	Example   string `json:"example"`
	IsDefault bool   `json:"isDefault"`
}

type DateFormatDetail struct {
	DateFormatListItem
	Description string `json:"description"`
	Audit
}

type CreateDateFormatRequest struct {
	Pattern     string `json:"pattern" binding:"required,max=50"`
	Description string `json:"description" binding:"omitempty,max=200"`
	IsDefault   bool   `json:"isDefault"`
}

type UpdateDateFormatRequest = CreateDateFormatRequest
