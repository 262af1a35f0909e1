package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
	"bizadmin/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type companyFixture struct {
	f        *fakeSet
	files    *storage.Memory
	svc      CompanyService
	country  *domain.Country
	currency *domain.Currency
	zone     *domain.TimeZone
}

func newCompanyFixture(t *testing.T) companyFixture {
	t.Helper()
	f := newFakeSet()
	files := storage.NewMemory()
	refs := CompanyRefs{Countries: f.countries, Currencies: f.currencies, TimeZones: f.timeZones, DateFormats: f.dateFormats}
	return companyFixture{
		f:        f,
		files:    files,
		svc:      NewCompanyService(f.companies, refs, files, 1024, testOptions()),
		country:  f.countries.seed(&domain.Country{Name: "Indonesia", Code: "ID", ISO3: "IDN", IsActive: true}),
		currency: f.currencies.seed(&domain.Currency{Code: "IDR", Name: "Rupiah", IsActive: true}),
		zone:     f.timeZones.seed(&domain.TimeZone{Name: "Asia/Jakarta", IsActive: true}),
	}
}

func (cf companyFixture) request(code string) dto.CreateCompanyRequest {
	return dto.CreateCompanyRequest{
		Code:       code,
		Name:       "Acme " + code,
		CountryID:  cf.country.ID,
		CurrencyID: cf.currency.ID,
		TimeZoneID: cf.zone.ID,
	}
}

func TestCompanyCreateChecksReferences(t *testing.T) {
	cf := newCompanyFixture(t)
	ctx := adminCtx()

	got, err := cf.svc.Create(ctx, cf.request("acme"))
	require.NoError(t, err)
	assert.Equal(t, "ACME", got.Code)
	assert.True(t, got.IsActive)

	req := cf.request("other")
	req.CurrencyID = 99
	_, err = cf.svc.Create(ctx, req)
	require.Error(t, err)
	var ve domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "currencyId", ve.Field)

	missing := int64(42)
	req = cf.request("other")
	req.DateFormatID = &missing
	_, err = cf.svc.Create(ctx, req)
	assert.True(t, domain.IsValidation(err))

	_, err = cf.svc.Create(ctx, cf.request("ACME"))
	assert.True(t, domain.IsConflict(err))

	byCode, err := cf.svc.GetByCode(ctx, " acme ")
	require.NoError(t, err)
	assert.Equal(t, got.ID, byCode.ID)
}

func TestCompanyDeleteBlockedByDependents(t *testing.T) {
	cf := newCompanyFixture(t)
	got, err := cf.svc.Create(adminCtx(), cf.request("ACME"))
	require.NoError(t, err)

	cf.f.companies.dependents[got.ID] = true
	assert.True(t, domain.IsConflict(cf.svc.Delete(adminCtx(), got.ID)))

	cf.f.companies.dependents[got.ID] = false
	require.NoError(t, cf.svc.Delete(adminCtx(), got.ID))
}

func TestCompanyLogoUploadReplacesPrevious(t *testing.T) {
	cf := newCompanyFixture(t)
	ctx := adminCtx()
	c, err := cf.svc.Create(ctx, cf.request("ACME"))
	require.NoError(t, err)

	_, _, err = cf.svc.OpenLogo(ctx, c.ID)
	assert.True(t, domain.IsNotFound(err))

	_, err = cf.svc.UploadLogo(ctx, c.ID, "logo.gif", 3, strings.NewReader("gif"))
	assert.True(t, domain.IsValidation(err))
	_, err = cf.svc.UploadLogo(ctx, c.ID, "logo.png", 4096, strings.NewReader("big"))
	assert.True(t, domain.IsValidation(err))

	got, err := cf.svc.UploadLogo(ctx, c.ID, "logo.png", int64(len(pngLogo)), strings.NewReader(pngLogo))
	require.NoError(t, err)
	assert.True(t, got.HasLogo)
	assert.Equal(t, 1, cf.files.Len())

	_, err = cf.svc.UploadLogo(ctx, c.ID, "Logo.SVG", int64(len(svgLogo)), strings.NewReader(svgLogo))
	require.NoError(t, err)
	assert.Equal(t, 1, cf.files.Len())

	rc, ct, err := cf.svc.OpenLogo(ctx, c.ID)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, svgLogo, string(body))
	assert.Equal(t, "image/svg+xml", ct)
}

const (
	pngLogo = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"
	svgLogo = `<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"><rect width="4" height="4"/></svg>`
)

func TestCompanyLogoContentMustMatchExtension(t *testing.T) {
	cf := newCompanyFixture(t)
	ctx := adminCtx()
	c, err := cf.svc.Create(ctx, cf.request("ACME"))
	require.NoError(t, err)

	for name, tc := range map[string]struct{ filename, body string }{
		"html as png":      {"logo.png", "<!DOCTYPE html><html><body><script>alert(1)</script></body></html>"},
		"svg as png":       {"logo.png", svgLogo},
		"png as svg":       {"logo.svg", pngLogo},
		"svg with script":  {"logo.svg", `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`},
		"svg with handler": {"logo.svg", `<svg xmlns="http://www.w3.org/2000/svg" onload="alert(1)"></svg>`},
		"empty":            {"logo.png", ""},
	} {
		_, err := cf.svc.UploadLogo(ctx, c.ID, tc.filename, int64(len(tc.body)), strings.NewReader(tc.body))
		assert.True(t, domain.IsValidation(err), name)
	}
	assert.Equal(t, 0, cf.files.Len())

	// declared size can lie; the bytes read are what count
	big := pngLogo + strings.Repeat("\x00", 4096)
	_, err = cf.svc.UploadLogo(ctx, c.ID, "logo.png", 10, strings.NewReader(big))
	assert.True(t, domain.IsValidation(err))
}

func TestBusinessDayInitializeWeek(t *testing.T) {
	f := newFakeSet()
	company := f.companies.seed(&domain.Company{Code: "ACME", Name: "Acme"})
	f.businessDays.seed(&domain.BusinessDay{CompanyID: company.ID, DayOfWeek: 6, IsWorkingDay: true})
	svc := NewBusinessDayService(f.businessDays, f.companies, testOptions())

	week, err := svc.InitializeWeek(adminCtx(), company.ID)
	require.NoError(t, err)
	require.Len(t, week, 7)
	for _, d := range week {
		switch d.DayOfWeek {
		case 0:
			assert.False(t, d.IsWorkingDay)
		case 6:
			// pre-existing row is kept as configured
			assert.True(t, d.IsWorkingDay)
		default:
			assert.True(t, d.IsWorkingDay, d.DayName)
		}
	}

	again, err := svc.InitializeWeek(adminCtx(), company.ID)
	require.NoError(t, err)
	assert.Len(t, again, 7)

	_, err = svc.InitializeWeek(adminCtx(), 999)
	assert.True(t, domain.IsNotFound(err))
}

func TestBusinessDayRejectsDuplicateDay(t *testing.T) {
	f := newFakeSet()
	company := f.companies.seed(&domain.Company{Code: "ACME", Name: "Acme"})
	svc := NewBusinessDayService(f.businessDays, f.companies, testOptions())

	_, err := svc.Create(adminCtx(), dto.CreateBusinessDayRequest{CompanyID: company.ID, DayOfWeek: intPtr(1), IsWorkingDay: true})
	require.NoError(t, err)
	_, err = svc.Create(adminCtx(), dto.CreateBusinessDayRequest{CompanyID: company.ID, DayOfWeek: intPtr(1)})
	assert.True(t, domain.IsConflict(err))
}

func TestBusinessHoursOverlap(t *testing.T) {
	f := newFakeSet()
	company := f.companies.seed(&domain.Company{Code: "ACME", Name: "Acme"})
	svc := NewBusinessHoursService(f.businessHours, f.companies, testOptions())
	ctx := adminCtx()
	req := func(open, close string) dto.CreateBusinessHoursRequest {
		return dto.CreateBusinessHoursRequest{CompanyID: company.ID, DayOfWeek: intPtr(1), OpenTime: open, CloseTime: close}
	}

	morning, err := svc.Create(ctx, req("08:00", "12:00"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, req("13:00", "17:00"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, req("11:30", "13:30"))
	assert.True(t, domain.IsConflict(err))
	_, err = svc.Create(ctx, req("18:00", "09:00"))
	assert.True(t, domain.IsValidation(err))
	_, err = svc.Create(ctx, req("12:00", "13:00"))
	require.NoError(t, err, "touching intervals do not overlap")

	// an interval may be updated in place without overlapping itself
	_, err = svc.Update(ctx, morning.ID, dto.UpdateBusinessHoursRequest{DayOfWeek: intPtr(1), OpenTime: "07:30", CloseTime: "12:00"})
	require.NoError(t, err)
}

func TestBusinessHolidayUniqueDate(t *testing.T) {
	f := newFakeSet()
	company := f.companies.seed(&domain.Company{Code: "ACME", Name: "Acme"})
	svc := NewBusinessHolidayService(f.businessHolidays, f.companies, testOptions())

	h, err := svc.Create(adminCtx(), dto.CreateBusinessHolidayRequest{CompanyID: company.ID, Name: "New Year", Date: "2026-01-01", IsRecurring: true})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", h.Date)

	_, err = svc.Create(adminCtx(), dto.CreateBusinessHolidayRequest{CompanyID: company.ID, Name: "Again", Date: "2026-01-01"})
	assert.True(t, domain.IsConflict(err))

	_, err = svc.Create(context.Background(), dto.CreateBusinessHolidayRequest{CompanyID: 77, Name: "Nope", Date: "2026-05-01"})
	assert.True(t, domain.IsValidation(err))
}
