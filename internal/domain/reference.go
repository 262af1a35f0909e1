package domain

type Country struct {
	BaseEntity
	Name     string
	Code     string
	ISO3     string `gorm:"column:iso3"`
	DialCode string
	IsActive bool
}

func (Country) TableName() string { return "countries" }

type Currency struct {
	BaseEntity
	Code          string
	Name          string
	Symbol        string
	DecimalPlaces int
	IsActive      bool
}

func (Currency) TableName() string { return "currencies" }

type TimeZone struct {
	BaseEntity
	Name        string
	DisplayName string
	UTCOffset   string `gorm:"column:utc_offset"`
	IsActive    bool
}

func (TimeZone) TableName() string { return "time_zones" }

type DateFormat struct {
	BaseEntity
	Pattern     string
	Description string
	Example     string
	IsDefault   bool
}

func (DateFormat) TableName() string { return "date_formats" }
