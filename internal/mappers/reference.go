package mappers

import (
	"strconv"

	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
)

func CountryToListItem(c domain.Country) dto.CountryListItem {
	return dto.CountryListItem{
		ID:       c.ID,
		Name:     c.Name,
		Code:     c.Code,
		ISO3:     c.ISO3,
		DialCode: c.DialCode,
		IsActive: c.IsActive,
	}
}

func CountryToDetail(c domain.Country) dto.CountryDetail {
	return dto.CountryDetail{CountryListItem: CountryToListItem(c), Audit: auditOf(c.BaseEntity)}
}

func NewCountryFromRequest(req dto.CreateCountryRequest) domain.Country {
	var c domain.Country
	ApplyCountryUpdate(&c, req)
	c.IsActive = boolOr(req.IsActive, true)
	return c
}

func ApplyCountryUpdate(c *domain.Country, req dto.UpdateCountryRequest) {
	c.Name = trim(req.Name)
	c.Code = upper(req.Code)
	c.ISO3 = upper(req.ISO3)
	c.DialCode = trim(req.DialCode)
	c.IsActive = boolOr(req.IsActive, c.IsActive)
}

var CountryExportHeaders = []string{"ID", "Name", "Code", "ISO3", "Dial Code", "Active"}

func CountryExportRow(c domain.Country) []string {
	return []string{itoa(c.ID), c.Name, c.Code, c.ISO3, c.DialCode, yesNo(c.IsActive)}
}

func CurrencyToListItem(c domain.Currency) dto.CurrencyListItem {
	return dto.CurrencyListItem{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		Symbol:        c.Symbol,
		DecimalPlaces: c.DecimalPlaces,
		IsActive:      c.IsActive,
	}
}

func CurrencyToDetail(c domain.Currency) dto.CurrencyDetail {
	return dto.CurrencyDetail{CurrencyListItem: CurrencyToListItem(c), Audit: auditOf(c.BaseEntity)}
}

func NewCurrencyFromRequest(req dto.CreateCurrencyRequest) domain.Currency {
	c := domain.Currency{DecimalPlaces: 2}
	ApplyCurrencyUpdate(&c, req)
	c.IsActive = boolOr(req.IsActive, true)
	return c
}

func ApplyCurrencyUpdate(c *domain.Currency, req dto.UpdateCurrencyRequest) {
	c.Code = upper(req.Code)
	c.Name = trim(req.Name)
	c.Symbol = trim(req.Symbol)
	c.DecimalPlaces = intOr(req.DecimalPlaces, c.DecimalPlaces)
	c.IsActive = boolOr(req.IsActive, c.IsActive)
}

var CurrencyExportHeaders = []string{"ID", "Code", "Name", "Symbol", "Decimals", "Active"}

func CurrencyExportRow(c domain.Currency) []string {
	return []string{itoa(c.ID), c.Code, c.Name, c.Symbol, strconv.Itoa(c.DecimalPlaces), yesNo(c.IsActive)}
}

func TimeZoneToListItem(t domain.TimeZone) dto.TimeZoneListItem {
	return dto.TimeZoneListItem{
		ID:          t.ID,
		Name:        t.Name,
		DisplayName: t.DisplayName,
		UTCOffset:   t.UTCOffset,
		IsActive:    t.IsActive,
	}
}

func TimeZoneToDetail(t domain.TimeZone) dto.TimeZoneDetail {
	return dto.TimeZoneDetail{TimeZoneListItem: TimeZoneToListItem(t), Audit: auditOf(t.BaseEntity)}
}

// NewTimeZoneFromRequest leaves UTCOffset to the service, which resolves the zone.
func NewTimeZoneFromRequest(req dto.CreateTimeZoneRequest) domain.TimeZone {
	var t domain.TimeZone
	ApplyTimeZoneUpdate(&t, req)
	t.IsActive = boolOr(req.IsActive, true)
	return t
}

func ApplyTimeZoneUpdate(t *domain.TimeZone, req dto.UpdateTimeZoneRequest) {
	t.Name = trim(req.Name)
	t.DisplayName = trim(req.DisplayName)
	if t.DisplayName == "" {
		t.DisplayName = t.Name
	}
	t.IsActive = boolOr(req.IsActive, t.IsActive)
}

var TimeZoneExportHeaders = []string{"ID", "Name", "Display Name", "UTC Offset", "Active"}

func TimeZoneExportRow(t domain.TimeZone) []string {
	return []string{itoa(t.ID), t.Name, t.DisplayName, t.UTCOffset, yesNo(t.IsActive)}
}

func DateFormatToListItem(f domain.DateFormat) dto.DateFormatListItem {
	return dto.DateFormatListItem{
		ID:        f.ID,
		Pattern:   f.Pattern,
		Example:   f.Example,
		IsDefault: f.IsDefault,
	}
}

func DateFormatToDetail(f domain.DateFormat) dto.DateFormatDetail {
	return dto.DateFormatDetail{
		DateFormatListItem: DateFormatToListItem(f),
		Description:        f.Description,
		Audit:              auditOf(f.BaseEntity),
	}
}

func NewDateFormatFromRequest(req dto.CreateDateFormatRequest) domain.DateFormat {
	var f domain.DateFormat
	ApplyDateFormatUpdate(&f, req)
	return f
}

func ApplyDateFormatUpdate(f *domain.DateFormat, req dto.UpdateDateFormatRequest) {
	f.Pattern = trim(req.Pattern)
	f.Description = trim(req.Description)
	f.IsDefault = req.IsDefault
}

var DateFormatExportHeaders = []string{"ID", "Pattern", "Example", "Description", "Default"}

func DateFormatExportRow(f domain.DateFormat) []string {
	return []string{itoa(f.ID), f.Pattern, f.Example, f.Description, yesNo(f.IsDefault)}
}
