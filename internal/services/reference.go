package services

import (
	"context"
	"strings"
	"time"

	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
	"bizadmin/internal/logger"
	"bizadmin/internal/mappers"
	"bizadmin/internal/repositories"
)

type CountryService interface {
	Resource[dto.CountryListItem, dto.CountryDetail, dto.CreateCountryRequest, dto.UpdateCountryRequest]
	GetByCode(ctx context.Context, code string) (dto.CountryDetail, error)
}

type countryService struct {
	crud[domain.Country, dto.CountryListItem, dto.CountryDetail]
	repo repositories.CountryRepository
}

func NewCountryService(repo repositories.CountryRepository, opts Options) CountryService {
	s := &countryService{repo: repo}
	s.crud = crud[domain.Country, dto.CountryListItem, dto.CountryDetail]{
		resource: "country",
		title:    "Countries",
		repo:     repo,
		toList:   mappers.CountryToListItem,
		toDetail: mappers.CountryToDetail,
		headers:  mappers.CountryExportHeaders,
		row:      mappers.CountryExportRow,
		opts:     opts,
		beforeDelete: func(ctx context.Context, c *domain.Country) error {
			used, err := repo.InUse(ctx, c.ID)
			return conflictIf(used, err, "country", "country %s is used by a company", c.Code)
		},
	}
	return s
}

func (s *countryService) GetByCode(ctx context.Context, code string) (dto.CountryDetail, error) {
	c, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return dto.CountryDetail{}, err
	}
	return mappers.CountryToDetail(*c), nil
}

func (s *countryService) validate(ctx context.Context, c *domain.Country) error {
	exists, err := s.repo.ExistsByCode(ctx, c.Code, c.ID)
	if err := conflictIf(exists, err, "country", "code %s already exists", c.Code); err != nil {
		return err
	}
	exists, err = s.repo.ExistsByISO3(ctx, c.ISO3, c.ID)
	return conflictIf(exists, err, "country", "iso3 %s already exists", c.ISO3)
}

func (s *countryService) Create(ctx context.Context, req dto.CreateCountryRequest) (dto.CountryDetail, error) {
	c := mappers.NewCountryFromRequest(req)
	if err := s.validate(ctx, &c); err != nil {
		return dto.CountryDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &c); err != nil {
		return dto.CountryDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.CountryDetail{}, err
	}
	s.log(ctx, "create").Info("country created", logger.EntityID(c.ID))
	return mappers.CountryToDetail(c), nil
}

func (s *countryService) Update(ctx context.Context, id int64, req dto.UpdateCountryRequest) (dto.CountryDetail, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CountryDetail{}, err
	}
	mappers.ApplyCountryUpdate(c, req)
	if err := s.validate(ctx, c); err != nil {
		return dto.CountryDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CountryDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.CountryDetail{}, err
	}
	return mappers.CountryToDetail(*c), nil
}

type CurrencyService interface {
	Resource[dto.CurrencyListItem, dto.CurrencyDetail, dto.CreateCurrencyRequest, dto.UpdateCurrencyRequest]
	GetByCode(ctx context.Context, code string) (dto.CurrencyDetail, error)
}

type currencyService struct {
	crud[domain.Currency, dto.CurrencyListItem, dto.CurrencyDetail]
	repo repositories.CurrencyRepository
}

func NewCurrencyService(repo repositories.CurrencyRepository, opts Options) CurrencyService {
	s := &currencyService{repo: repo}
	s.crud = crud[domain.Currency, dto.CurrencyListItem, dto.CurrencyDetail]{
		resource: "currency",
		title:    "Currencies",
		repo:     repo,
		toList:   mappers.CurrencyToListItem,
		toDetail: mappers.CurrencyToDetail,
		headers:  mappers.CurrencyExportHeaders,
		row:      mappers.CurrencyExportRow,
		opts:     opts,
		beforeDelete: func(ctx context.Context, c *domain.Currency) error {
			used, err := repo.InUse(ctx, c.ID)
			return conflictIf(used, err, "currency", "currency %s is used by a company", c.Code)
		},
	}
	return s
}

func (s *currencyService) GetByCode(ctx context.Context, code string) (dto.CurrencyDetail, error) {
	c, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return dto.CurrencyDetail{}, err
	}
	return mappers.CurrencyToDetail(*c), nil
}

func (s *currencyService) Create(ctx context.Context, req dto.CreateCurrencyRequest) (dto.CurrencyDetail, error) {
	c := mappers.NewCurrencyFromRequest(req)
	exists, err := s.repo.ExistsByCode(ctx, c.Code, 0)
	if err := conflictIf(exists, err, "currency", "code %s already exists", c.Code); err != nil {
		return dto.CurrencyDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &c); err != nil {
		return dto.CurrencyDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.CurrencyDetail{}, err
	}
	s.log(ctx, "create").Info("currency created", logger.EntityID(c.ID))
	return mappers.CurrencyToDetail(c), nil
}

func (s *currencyService) Update(ctx context.Context, id int64, req dto.UpdateCurrencyRequest) (dto.CurrencyDetail, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CurrencyDetail{}, err
	}
	mappers.ApplyCurrencyUpdate(c, req)
	exists, err := s.repo.ExistsByCode(ctx, c.Code, c.ID)
	if err := conflictIf(exists, err, "currency", "code %s already exists", c.Code); err != nil {
		return dto.CurrencyDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CurrencyDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.CurrencyDetail{}, err
	}
	return mappers.CurrencyToDetail(*c), nil
}

type TimeZoneService interface {
	Resource[dto.TimeZoneListItem, dto.TimeZoneDetail, dto.CreateTimeZoneRequest, dto.UpdateTimeZoneRequest]
	GetByName(ctx context.Context, name string) (dto.TimeZoneDetail, error)
}

type timeZoneService struct {
	crud[domain.TimeZone, dto.TimeZoneListItem, dto.TimeZoneDetail]
	repo repositories.TimeZoneRepository
}

func NewTimeZoneService(repo repositories.TimeZoneRepository, opts Options) TimeZoneService {
	s := &timeZoneService{repo: repo}
	s.crud = crud[domain.TimeZone, dto.TimeZoneListItem, dto.TimeZoneDetail]{
		resource: "time zone",
		title:    "Time Zones",
		repo:     repo,
		toList:   mappers.TimeZoneToListItem,
		toDetail: mappers.TimeZoneToDetail,
		headers:  mappers.TimeZoneExportHeaders,
		row:      mappers.TimeZoneExportRow,
		opts:     opts,
		beforeDelete: func(ctx context.Context, tz *domain.TimeZone) error {
			used, err := repo.InUse(ctx, tz.ID)
			return conflictIf(used, err, "time zone", "time zone %s is used by a company", tz.Name)
		},
	}
	return s
}

func (s *timeZoneService) GetByName(ctx context.Context, name string) (dto.TimeZoneDetail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dto.TimeZoneDetail{}, domain.Invalid("value", "is required")
	}
	tz, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return dto.TimeZoneDetail{}, err
	}
	return mappers.TimeZoneToDetail(*tz), nil
}

// prepare resolves the IANA zone, fills UTCOffset and checks the name is free.
func (s *timeZoneService) prepare(ctx context.Context, tz *domain.TimeZone) error {
	loc, err := time.LoadLocation(tz.Name)
	if err != nil || tz.Name == "" || strings.EqualFold(tz.Name, "local") {
		return domain.Invalid("name", "must be a valid IANA time zone")
	}
	tz.UTCOffset = utcOffset(loc, s.opts.now())
	exists, err := s.repo.ExistsByName(ctx, tz.Name, tz.ID)
	return conflictIf(exists, err, "time zone", "time zone %s already exists", tz.Name)
}

func (s *timeZoneService) Create(ctx context.Context, req dto.CreateTimeZoneRequest) (dto.TimeZoneDetail, error) {
	tz := mappers.NewTimeZoneFromRequest(req)
	if err := s.prepare(ctx, &tz); err != nil {
		return dto.TimeZoneDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &tz); err != nil {
		return dto.TimeZoneDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.TimeZoneDetail{}, err
	}
	s.log(ctx, "create").Info("time zone created", logger.EntityID(tz.ID))
	return mappers.TimeZoneToDetail(tz), nil
}

func (s *timeZoneService) Update(ctx context.Context, id int64, req dto.UpdateTimeZoneRequest) (dto.TimeZoneDetail, error) {
	tz, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.TimeZoneDetail{}, err
	}
	mappers.ApplyTimeZoneUpdate(tz, req)
	if err := s.prepare(ctx, tz); err != nil {
		return dto.TimeZoneDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, tz); err != nil {
		return dto.TimeZoneDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.TimeZoneDetail{}, err
	}
	return mappers.TimeZoneToDetail(*tz), nil
}

type DateFormatService interface {
	Resource[dto.DateFormatListItem, dto.DateFormatDetail, dto.CreateDateFormatRequest, dto.UpdateDateFormatRequest]
}

type dateFormatService struct {
	crud[domain.DateFormat, dto.DateFormatListItem, dto.DateFormatDetail]
	repo repositories.DateFormatRepository
}

func NewDateFormatService(repo repositories.DateFormatRepository, opts Options) DateFormatService {
	s := &dateFormatService{repo: repo}
	s.crud = crud[domain.DateFormat, dto.DateFormatListItem, dto.DateFormatDetail]{
		resource: "date format",
		title:    "Date Formats",
		repo:     repo,
		toList:   mappers.DateFormatToListItem,
		toDetail: mappers.DateFormatToDetail,
		headers:  mappers.DateFormatExportHeaders,
		row:      mappers.DateFormatExportRow,
		opts:     opts,
		beforeDelete: func(ctx context.Context, f *domain.DateFormat) error {
			if f.IsDefault {
				return domain.Conflict("date format", "the default date format cannot be deleted")
			}
			used, err := repo.InUse(ctx, f.ID)
			return conflictIf(used, err, "date format", "date format %s is used by a company", f.Pattern)
		},
	}
	return s
}

func (s *dateFormatService) prepare(ctx context.Context, f *domain.DateFormat) error {
	example, ok := formatPattern(f.Pattern, s.opts.now())
	if !ok {
		return domain.Invalid("pattern", "must contain at least one date or time token")
	}
	f.Example = example
	exists, err := s.repo.ExistsByPattern(ctx, f.Pattern, f.ID)
	return conflictIf(exists, err, "date format", "pattern %s already exists", f.Pattern)
}

// clearPreviousDefault stages the demotion of the current default when f takes over.
func (s *dateFormatService) clearPreviousDefault(ctx context.Context, f *domain.DateFormat) error {
	if !f.IsDefault {
		return nil
	}
	prev, err := s.repo.GetDefault(ctx)
	if domain.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if prev.ID == f.ID {
		return nil
	}
	prev.IsDefault = false
	return s.repo.Update(ctx, prev)
}

func (s *dateFormatService) Create(ctx context.Context, req dto.CreateDateFormatRequest) (dto.DateFormatDetail, error) {
	f := mappers.NewDateFormatFromRequest(req)
	if err := s.prepare(ctx, &f); err != nil {
		return dto.DateFormatDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.clearPreviousDefault(ctx, &f); err != nil {
		return dto.DateFormatDetail{}, err
	}
	if err := s.repo.Add(ctx, &f); err != nil {
		return dto.DateFormatDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.DateFormatDetail{}, err
	}
	s.log(ctx, "create").Info("date format created", logger.EntityID(f.ID))
	return mappers.DateFormatToDetail(f), nil
}

func (s *dateFormatService) Update(ctx context.Context, id int64, req dto.UpdateDateFormatRequest) (dto.DateFormatDetail, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.DateFormatDetail{}, err
	}
	wasDefault := f.IsDefault
	mappers.ApplyDateFormatUpdate(f, req)
	if wasDefault && !f.IsDefault {
		return dto.DateFormatDetail{}, domain.Invalid("isDefault", "mark another format as default instead")
	}
	if err := s.prepare(ctx, f); err != nil {
		return dto.DateFormatDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.clearPreviousDefault(ctx, f); err != nil {
		return dto.DateFormatDetail{}, err
	}
	if err := s.repo.Update(ctx, f); err != nil {
		return dto.DateFormatDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.DateFormatDetail{}, err
	}
	return mappers.DateFormatToDetail(*f), nil
}
