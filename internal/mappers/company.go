package mappers

import (
	"strconv"

	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
)

func CompanyToListItem(c domain.Company) dto.CompanyListItem {
	return dto.CompanyListItem{
		ID:         c.ID,
		Code:       c.Code,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		CountryID:  c.CountryID,
		CurrencyID: c.CurrencyID,
		TimeZoneID: c.TimeZoneID,
		IsActive:   c.IsActive,
		HasLogo:    c.LogoPath != "",
	}
}

func CompanyToDetail(c domain.Company) dto.CompanyDetail {
	return dto.CompanyDetail{
		CompanyListItem: CompanyToListItem(c),
		LegalName:       c.LegalName,
		TaxNumber:       c.TaxNumber,
		Address:         c.Address,
		DateFormatID:    c.DateFormatID,
		Audit:           auditOf(c.BaseEntity),
	}
}

func NewCompanyFromRequest(req dto.CreateCompanyRequest) domain.Company {
	var c domain.Company
	ApplyCompanyUpdate(&c, req)
	c.IsActive = boolOr(req.IsActive, true)
	return c
}

// ApplyCompanyUpdate never touches LogoPath; logos have their own endpoint.
func ApplyCompanyUpdate(c *domain.Company, req dto.UpdateCompanyRequest) {
	c.Code = upper(req.Code)
	c.Name = trim(req.Name)
	c.LegalName = trim(req.LegalName)
	c.TaxNumber = trim(req.TaxNumber)
	c.Email = lower(req.Email)
	c.Phone = trim(req.Phone)
	c.Address = trim(req.Address)
	c.CountryID = req.CountryID
	c.CurrencyID = req.CurrencyID
	c.TimeZoneID = req.TimeZoneID
	c.DateFormatID = req.DateFormatID
	c.IsActive = boolOr(req.IsActive, c.IsActive)
}

var CompanyExportHeaders = []string{"ID", "Code", "Name", "Legal Name", "Tax Number", "Email", "Phone", "Country", "Currency", "Time Zone", "Active"}

func CompanyExportRow(c domain.Company) []string {
	return []string{
		itoa(c.ID), c.Code, c.Name, c.LegalName, c.TaxNumber, c.Email, c.Phone,
		itoa(c.CountryID), itoa(c.CurrencyID), itoa(c.TimeZoneID), yesNo(c.IsActive),
	}
}

func BusinessDayToListItem(d domain.BusinessDay) dto.BusinessDayListItem {
	return dto.BusinessDayListItem{
		ID:           d.ID,
		CompanyID:    d.CompanyID,
		DayOfWeek:    d.DayOfWeek,
		DayName:      dayName(d.DayOfWeek),
		IsWorkingDay: d.IsWorkingDay,
	}
}

func BusinessDayToDetail(d domain.BusinessDay) dto.BusinessDayDetail {
	return dto.BusinessDayDetail{BusinessDayListItem: BusinessDayToListItem(d), Audit: auditOf(d.BaseEntity)}
}

func NewBusinessDayFromRequest(req dto.CreateBusinessDayRequest) domain.BusinessDay {
	return domain.BusinessDay{
		CompanyID:    req.CompanyID,
		DayOfWeek:    intOr(req.DayOfWeek, 0),
		IsWorkingDay: req.IsWorkingDay,
	}
}

func ApplyBusinessDayUpdate(d *domain.BusinessDay, req dto.UpdateBusinessDayRequest) {
	d.DayOfWeek = intOr(req.DayOfWeek, d.DayOfWeek)
	d.IsWorkingDay = req.IsWorkingDay
}

var BusinessDayExportHeaders = []string{"ID", "Company", "Day", "Working Day"}

func BusinessDayExportRow(d domain.BusinessDay) []string {
	return []string{itoa(d.ID), itoa(d.CompanyID), dayName(d.DayOfWeek), yesNo(d.IsWorkingDay)}
}

func BusinessHoursToListItem(h domain.BusinessHours) dto.BusinessHoursListItem {
	return dto.BusinessHoursListItem{
		ID:        h.ID,
		CompanyID: h.CompanyID,
		DayOfWeek: h.DayOfWeek,
		DayName:   dayName(h.DayOfWeek),
		OpenTime:  h.OpenTime,
		CloseTime: h.CloseTime,
	}
}

func BusinessHoursToDetail(h domain.BusinessHours) dto.BusinessHoursDetail {
	return dto.BusinessHoursDetail{BusinessHoursListItem: BusinessHoursToListItem(h), Audit: auditOf(h.BaseEntity)}
}

func NewBusinessHoursFromRequest(req dto.CreateBusinessHoursRequest) domain.BusinessHours {
	return domain.BusinessHours{
		CompanyID: req.CompanyID,
		DayOfWeek: intOr(req.DayOfWeek, 0),
		OpenTime:  trim(req.OpenTime),
		CloseTime: trim(req.CloseTime),
	}
}

func ApplyBusinessHoursUpdate(h *domain.BusinessHours, req dto.UpdateBusinessHoursRequest) {
	h.DayOfWeek = intOr(req.DayOfWeek, h.DayOfWeek)
	h.OpenTime = trim(req.OpenTime)
	h.CloseTime = trim(req.CloseTime)
}

var BusinessHoursExportHeaders = []string{"ID", "Company", "Day", "Open", "Close"}

func BusinessHoursExportRow(h domain.BusinessHours) []string {
	return []string{itoa(h.ID), itoa(h.CompanyID), dayName(h.DayOfWeek), h.OpenTime, h.CloseTime}
}

func BusinessHolidayToListItem(h domain.BusinessHoliday) dto.BusinessHolidayListItem {
	return dto.BusinessHolidayListItem{
		ID:          h.ID,
		CompanyID:   h.CompanyID,
		Name:        h.Name,
		Date:        formatDate(h.Date),
		IsRecurring: h.IsRecurring,
	}
}

func BusinessHolidayToDetail(h domain.BusinessHoliday) dto.BusinessHolidayDetail {
	return dto.BusinessHolidayDetail{BusinessHolidayListItem: BusinessHolidayToListItem(h), Audit: auditOf(h.BaseEntity)}
}

func NewBusinessHolidayFromRequest(req dto.CreateBusinessHolidayRequest) domain.BusinessHoliday {
	return domain.BusinessHoliday{
		CompanyID:   req.CompanyID,
		Name:        trim(req.Name),
		Date:        parseDate(req.Date),
		IsRecurring: req.IsRecurring,
	}
}

func ApplyBusinessHolidayUpdate(h *domain.BusinessHoliday, req dto.UpdateBusinessHolidayRequest) {
	h.Name = trim(req.Name)
	h.Date = parseDate(req.Date)
	h.IsRecurring = req.IsRecurring
}

var BusinessHolidayExportHeaders = []string{"ID", "Company", "Name", "Date", "Recurring"}

func BusinessHolidayExportRow(h domain.BusinessHoliday) []string {
	return []string{itoa(h.ID), strconv.FormatInt(h.CompanyID, 10), h.Name, formatDate(h.Date), yesNo(h.IsRecurring)}
}
