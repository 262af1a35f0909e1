package domain

import "time"

type Company struct {
	BaseEntity
	Code         string
	Name         string
	LegalName    string
	TaxNumber    string
	Email        string
	Phone        string
	Address      string
	CountryID    int64
	CurrencyID   int64
	TimeZoneID   int64
	DateFormatID *int64
	LogoPath     string
	IsActive     bool
}

func (Company) TableName() string { return "companies" }

type BusinessDay struct {
	BaseEntity
	CompanyID int64
	// 0 = Sunday ... 6 = Saturday
	DayOfWeek    int
	IsWorkingDay bool
}

func (BusinessDay) TableName() string { return "business_days" }

// BusinessHours is one opening interval; times are "HH:MM" so they compare lexically.
type BusinessHours struct {
	BaseEntity
	CompanyID int64
	DayOfWeek int
	OpenTime  string
	CloseTime string
}

func (BusinessHours) TableName() string { return "business_hours" }

type BusinessHoliday struct {
	BaseEntity
	CompanyID   int64
	Name        string
	Date        time.Time `gorm:"type:date"`
	IsRecurring bool
}

func (BusinessHoliday) TableName() string { return "business_holidays" }
