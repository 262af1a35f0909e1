package mappers

import (
	"testing"
	"time"

	"bizadmin/internal/domain"
	"bizadmin/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestNewCountryFromRequestNormalizes(t *testing.T) {
	c := NewCountryFromRequest(dto.CreateCountryRequest{
		Name: "  Indonesia ", Code: "id", ISO3: "idn", DialCode: " +62",
	})
	assert.Equal(t, "Indonesia", c.Name)
	assert.Equal(t, "ID", c.Code)
	assert.Equal(t, "IDN", c.ISO3)
	assert.Equal(t, "+62", c.DialCode)
	assert.True(t, c.IsActive, "active defaults to true")
}

func TestApplyCountryUpdateKeepsActiveWhenAbsent(t *testing.T) {
	c := domain.Country{IsActive: false}
	ApplyCountryUpdate(&c, dto.UpdateCountryRequest{Name: "X", Code: "xx", ISO3: "xxx"})
	assert.False(t, c.IsActive)

	ApplyCountryUpdate(&c, dto.UpdateCountryRequest{Name: "X", Code: "xx", ISO3: "xxx", IsActive: boolPtr(true)})
	assert.True(t, c.IsActive)
}

func TestCountryToDetailCarriesAudit(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	c := domain.Country{Name: "Japan", Code: "JP"}
	c.ID = 7
	c.MarkCreated("alice", now)

	d := CountryToDetail(c)
	assert.Equal(t, int64(7), d.ID)
	assert.Equal(t, "alice", d.CreatedBy)
	assert.Equal(t, now, d.CreatedAt)
	require.NotNil(t, d.ModifiedAt)
}

func TestCurrencyDecimalsDefault(t *testing.T) {
	c := NewCurrencyFromRequest(dto.CreateCurrencyRequest{Code: "usd", Name: "US Dollar"})
	assert.Equal(t, "USD", c.Code)
	assert.Equal(t, 2, c.DecimalPlaces)

	c = NewCurrencyFromRequest(dto.CreateCurrencyRequest{Code: "jpy", Name: "Yen", DecimalPlaces: intPtr(0)})
	assert.Equal(t, 0, c.DecimalPlaces)
}

func TestTimeZoneDisplayNameFallsBackToName(t *testing.T) {
	tz := NewTimeZoneFromRequest(dto.CreateTimeZoneRequest{Name: "Asia/Jakarta"})
	assert.Equal(t, "Asia/Jakarta", tz.DisplayName)
}

func TestBusinessDayListItemHasDayName(t *testing.T) {
	d := NewBusinessDayFromRequest(dto.CreateBusinessDayRequest{CompanyID: 1, DayOfWeek: intPtr(1), IsWorkingDay: true})
	item := BusinessDayToListItem(d)
	assert.Equal(t, "Monday", item.DayName)
	assert.Equal(t, []string{"0", "1", "Monday", "Yes"}, BusinessDayExportRow(d))
}

func TestBusinessHolidayDateRoundTrip(t *testing.T) {
	h := NewBusinessHolidayFromRequest(dto.CreateBusinessHolidayRequest{CompanyID: 2, Name: "New Year", Date: "2025-01-01"})
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), h.Date)
	assert.Equal(t, "2025-01-01", BusinessHolidayToListItem(h).Date)
}

func TestProductVersionOptionalReleaseDate(t *testing.T) {
	v := NewProductVersionFromRequest(dto.CreateProductVersionRequest{ProductID: 1, Version: "1.0.0"})
	assert.Nil(t, v.ReleaseDate)
	assert.Equal(t, "", ProductVersionToListItem(v).ReleaseDate)

	ApplyProductVersionUpdate(&v, dto.UpdateProductVersionRequest{Version: "1.0.1", ReleaseDate: "2024-12-31"})
	require.NotNil(t, v.ReleaseDate)
	assert.Equal(t, "2024-12-31", ProductVersionToListItem(v).ReleaseDate)
}

func TestRoleDetailListsPermissions(t *testing.T) {
	r := domain.Role{Name: "Administrator", Permissions: []domain.Permission{
		{Code: "countries.read"}, {Code: "countries.create"},
	}}
	d := RoleToDetail(r)
	assert.Equal(t, 2, d.PermissionCount)
	require.Len(t, d.Permissions, 2)
	assert.Equal(t, "countries.read", d.Permissions[0].Code)
	assert.Equal(t, "countries.read countries.create", RoleExportRow(r)[4])
}

func TestUserMappingLowercasesIdentity(t *testing.T) {
	u := NewUserFromRequest(dto.CreateUserRequest{Username: " Alice ", Email: "ALICE@Example.com", FullName: "Alice"})
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Empty(t, u.PasswordHash)

	u.Roles = []domain.Role{
		{Name: "A", Permissions: []domain.Permission{{Code: "x.read"}}},
		{Name: "B", Permissions: []domain.Permission{{Code: "x.read"}, {Code: "y.read"}}},
	}
	p := UserToProfile(u)
	assert.Equal(t, []string{"A", "B"}, p.Roles)
	assert.Equal(t, []string{"x.read", "y.read"}, p.Permissions)
}
