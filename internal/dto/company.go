package dto

type CompanyListItem struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	CountryID  int64  `json:"countryId"`
	CurrencyID int64  `json:"currencyId"`
	TimeZoneID int64  `json:"timeZoneId"`
	IsActive   bool   `json:"isActive"`
	HasLogo    bool   `json:"hasLogo"`
}

type CompanyDetail struct {
	CompanyListItem
	LegalName    string `json:"legalName"`
	TaxNumber    string `json:"taxNumber"`
	Address      string `json:"address"`
	DateFormatID *int64 `json:"dateFormatId"`
	Audit
}

type CreateCompanyRequest struct {
	Code         string `json:"code" binding:"required,max=30"`
	Name         string `json:"name" binding:"required,max=150"`
	LegalName    string `json:"legalName" binding:"omitempty,max=200"`
	TaxNumber    string `json:"taxNumber" binding:"omitempty,max=50"`
	Email        string `json:"email" binding:"omitempty,email,max=150"`
	Phone        string `json:"phone" binding:"omitempty,max=30"`
	Address      string `json:"address" binding:"omitempty,max=500"`
	CountryID    int64  `json:"countryId" binding:"required,gt=0"`
	CurrencyID   int64  `json:"currencyId" binding:"required,gt=0"`
	TimeZoneID   int64  `json:"timeZoneId" binding:"required,gt=0"`
	DateFormatID *int64 `json:"dateFormatId" binding:"omitempty,gt=0"`
	IsActive     *bool  `json:"isActive"`
}

type UpdateCompanyRequest = CreateCompanyRequest

type BusinessDayListItem struct {
	ID           int64  `json:"id"`
	CompanyID    int64  `json:"companyId"`
	DayOfWeek    int    `json:"dayOfWeek"`
	DayName      string `json:"dayName"`
	IsWorkingDay bool   `json:"isWorkingDay"`
}

type BusinessDayDetail struct {
	BusinessDayListItem
	Audit
}

type CreateBusinessDayRequest struct {
	CompanyID    int64 `json:"companyId" binding:"required,gt=0"`
	DayOfWeek    *int  `json:"dayOfWeek" binding:"required,gte=0,lte=6"`
	IsWorkingDay bool  `json:"isWorkingDay"`
}

type UpdateBusinessDayRequest struct {
	DayOfWeek    *int `json:"dayOfWeek" binding:"required,gte=0,lte=6"`
	IsWorkingDay bool `json:"isWorkingDay"`
}

type BusinessHoursListItem struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"companyId"`
	DayOfWeek int    `json:"dayOfWeek"`
	DayName   string `json:"dayName"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

type BusinessHoursDetail struct {
	BusinessHoursListItem
	Audit
}

type CreateBusinessHoursRequest struct {
	CompanyID int64  `json:"companyId" binding:"required,gt=0"`
	DayOfWeek *int   `json:"dayOfWeek" binding:"required,gte=0,lte=6"`
	OpenTime  string `json:"openTime" binding:"required,hhmm"`
	CloseTime string `json:"closeTime" binding:"required,hhmm"`
}

type UpdateBusinessHoursRequest struct {
	DayOfWeek *int   `json:"dayOfWeek" binding:"required,gte=0,lte=6"`
	OpenTime  string `json:"openTime" binding:"required,hhmm"`
	CloseTime string `json:"closeTime" binding:"required,hhmm"`
}

type BusinessHolidayListItem struct {
	ID          int64  `json:"id"`
	CompanyID   int64  `json:"companyId"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	IsRecurring bool   `json:"isRecurring"`
}

type BusinessHolidayDetail struct {
	BusinessHolidayListItem
	Audit
}

type CreateBusinessHolidayRequest struct {
	CompanyID   int64  `json:"companyId" binding:"required,gt=0"`
	Name        string `json:"name" binding:"required,max=150"`
	Date        string `json:"date" binding:"required,date"`
	IsRecurring bool   `json:"isRecurring"`
}

type UpdateBusinessHolidayRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	Date        string `json:"date" binding:"required,date"`
	IsRecurring bool   `json:"isRecurring"`
}
