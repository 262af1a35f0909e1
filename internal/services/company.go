package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
	"bizadmin/internal/logger"
	"bizadmin/internal/mappers"
	"bizadmin/internal/repositories"
	"bizadmin/internal/storage"

	"github.com/gabriel-vasile/mimetype"
)

type CompanyService interface {
	Resource[dto.CompanyListItem, dto.CompanyDetail, dto.CreateCompanyRequest, dto.UpdateCompanyRequest]
	GetByCode(ctx context.Context, code string) (dto.CompanyDetail, error)
	UploadLogo(ctx context.Context, id int64, filename string, size int64, r io.Reader) (dto.CompanyDetail, error)
	OpenLogo(ctx context.Context, id int64) (io.ReadCloser, string, error)
}

// CompanyRefs are the repositories a company points at.
type CompanyRefs struct {
	Countries   repositories.CountryRepository
	Currencies  repositories.CurrencyRepository
	TimeZones   repositories.TimeZoneRepository
	DateFormats repositories.DateFormatRepository
}

type companyService struct {
	crud[domain.Company, dto.CompanyListItem, dto.CompanyDetail]
	repo    repositories.CompanyRepository
	refs    CompanyRefs
	files   storage.Storage
	maxLogo int64
}

// logoTypes maps accepted extensions to their content type.
var logoTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
}

// activeSVG matches SVG markup that can run script when rendered.
var activeSVG = regexp.MustCompile(`(?i)<script|<foreignobject|\bon[a-z]+\s*=|javascript:`)

func NewCompanyService(repo repositories.CompanyRepository, refs CompanyRefs, files storage.Storage, maxLogoBytes int64, opts Options) CompanyService {
	s := &companyService{repo: repo, refs: refs, files: files, maxLogo: maxLogoBytes}
	s.crud = crud[domain.Company, dto.CompanyListItem, dto.CompanyDetail]{
		resource: "company",
		title:    "Companies",
		repo:     repo,
		toList:   mappers.CompanyToListItem,
		toDetail: mappers.CompanyToDetail,
		headers:  mappers.CompanyExportHeaders,
		row:      mappers.CompanyExportRow,
		opts:     opts,
		beforeDelete: func(ctx context.Context, c *domain.Company) error {
			has, err := repo.HasDependents(ctx, c.ID)
			return conflictIf(has, err, "company", "company %s still has schedules or users", c.Code)
		},
	}
	return s
}

func (s *companyService) GetByCode(ctx context.Context, code string) (dto.CompanyDetail, error) {
	c, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return dto.CompanyDetail{}, err
	}
	return mappers.CompanyToDetail(*c), nil
}

func (s *companyService) validate(ctx context.Context, c *domain.Company) error {
	exists, err := s.repo.ExistsByCode(ctx, c.Code, c.ID)
	if err := conflictIf(exists, err, "company", "code %s already exists", c.Code); err != nil {
		return err
	}
	if err := mustExist(ctx, s.refs.Countries.Exists, "countryId", "country", c.CountryID); err != nil {
		return err
	}
	if err := mustExist(ctx, s.refs.Currencies.Exists, "currencyId", "currency", c.CurrencyID); err != nil {
		return err
	}
	if err := mustExist(ctx, s.refs.TimeZones.Exists, "timeZoneId", "time zone", c.TimeZoneID); err != nil {
		return err
	}
	if c.DateFormatID != nil {
		return mustExist(ctx, s.refs.DateFormats.Exists, "dateFormatId", "date format", *c.DateFormatID)
	}
	return nil
}

func (s *companyService) Create(ctx context.Context, req dto.CreateCompanyRequest) (dto.CompanyDetail, error) {
	c := mappers.NewCompanyFromRequest(req)
	if err := s.validate(ctx, &c); err != nil {
		return dto.CompanyDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &c); err != nil {
		return dto.CompanyDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.CompanyDetail{}, err
	}
	s.log(ctx, "create").Info("company created", logger.EntityID(c.ID))
	return mappers.CompanyToDetail(c), nil
}

func (s *companyService) Update(ctx context.Context, id int64, req dto.UpdateCompanyRequest) (dto.CompanyDetail, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CompanyDetail{}, err
	}
	mappers.ApplyCompanyUpdate(c, req)
	if err := s.validate(ctx, c); err != nil {
		return dto.CompanyDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CompanyDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.CompanyDetail{}, err
	}
	return mappers.CompanyToDetail(*c), nil
}

// UploadLogo stores the file, points the company at it and removes the previous logo.
func (s *companyService) UploadLogo(ctx context.Context, id int64, filename string, size int64, r io.Reader) (dto.CompanyDetail, error) {
	ext := strings.ToLower(path.Ext(filename))
	if _, ok := logoTypes[ext]; !ok {
		return dto.CompanyDetail{}, domain.Invalid("file", "must be a png, jpeg or svg image")
	}
	if s.maxLogo > 0 && size > s.maxLogo {
		return dto.CompanyDetail{}, domain.Invalid("file", fmt.Sprintf("must be at most %d bytes", s.maxLogo))
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CompanyDetail{}, err
	}
	data, err := s.readLogo(ext, r)
	if err != nil {
		return dto.CompanyDetail{}, err
	}

	key := fmt.Sprintf("companies/%d/logo-%d%s", c.ID, s.opts.now().UnixNano(), ext)
	if err := s.files.Save(ctx, key, bytes.NewReader(data)); err != nil {
		return dto.CompanyDetail{}, domain.Internal("store logo", err)
	}

	previous := c.LogoPath
	c.LogoPath = key
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, c); err != nil {
		_ = s.files.Delete(ctx, key)
		return dto.CompanyDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		_ = s.files.Delete(ctx, key)
		return dto.CompanyDetail{}, err
	}
	if previous != "" && previous != key {
		if err := s.files.Delete(ctx, previous); err != nil {
			s.log(ctx, "upload_logo").Warn("previous logo not removed", logger.Err(err))
		}
	}
	s.log(ctx, "upload_logo").Info("logo stored", logger.EntityID(c.ID))
	return mappers.CompanyToDetail(*c), nil
}

// readLogo reads the upload within the size limit and checks that its bytes
// are the image type the extension claims.
func (s *companyService) readLogo(ext string, r io.Reader) ([]byte, error) {
	if s.maxLogo > 0 {
		r = io.LimitReader(r, s.maxLogo+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, domain.Internal("read logo", err)
	}
	if s.maxLogo > 0 && int64(len(data)) > s.maxLogo {
		return nil, domain.Invalid("file", fmt.Sprintf("must be at most %d bytes", s.maxLogo))
	}
	if len(data) == 0 {
		return nil, domain.Invalid("file", "is empty")
	}
	want := logoTypes[ext]
	if got := mimetype.Detect(data); !got.Is(want) {
		return nil, domain.Invalid("file", fmt.Sprintf("content is %s, not %s", got.String(), want))
	}
	if want == "image/svg+xml" && activeSVG.Match(data) {
		return nil, domain.Invalid("file", "svg must not contain scripts or event handlers")
	}
	return data, nil
}

// OpenLogo returns the stored logo and its content type.
func (s *companyService) OpenLogo(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if c.LogoPath == "" {
		return nil, "", domain.NotFoundError{Resource: "company logo", Key: fmt.Sprint(id)}
	}
	rc, err := s.files.Open(ctx, c.LogoPath)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", domain.NotFoundError{Resource: "company logo", Key: fmt.Sprint(id), Err: err}
	}
	if err != nil {
		return nil, "", domain.Internal("open logo", err)
	}
	ct := logoTypes[strings.ToLower(path.Ext(c.LogoPath))]
	if ct == "" {
		ct = "application/octet-stream"
	}
	return rc, ct, nil
}

type BusinessDayService interface {
	Resource[dto.BusinessDayListItem, dto.BusinessDayDetail, dto.CreateBusinessDayRequest, dto.UpdateBusinessDayRequest]
	InitializeWeek(ctx context.Context, companyID int64) ([]dto.BusinessDayListItem, error)
}

type businessDayService struct {
	crud[domain.BusinessDay, dto.BusinessDayListItem, dto.BusinessDayDetail]
	repo      repositories.BusinessDayRepository
	companies repositories.CompanyRepository
}

func NewBusinessDayService(repo repositories.BusinessDayRepository, companies repositories.CompanyRepository, opts Options) BusinessDayService {
	s := &businessDayService{repo: repo, companies: companies}
	s.crud = crud[domain.BusinessDay, dto.BusinessDayListItem, dto.BusinessDayDetail]{
		resource: "business day",
		title:    "Business Days",
		repo:     repo,
		toList:   mappers.BusinessDayToListItem,
		toDetail: mappers.BusinessDayToDetail,
		headers:  mappers.BusinessDayExportHeaders,
		row:      mappers.BusinessDayExportRow,
		opts:     opts,
	}
	return s
}

func (s *businessDayService) validate(ctx context.Context, d *domain.BusinessDay) error {
	if err := mustExist(ctx, s.companies.Exists, "companyId", "company", d.CompanyID); err != nil {
		return err
	}
	exists, err := s.repo.ExistsByDay(ctx, d.CompanyID, d.DayOfWeek, d.ID)
	return conflictIf(exists, err, "business day", "day %d is already configured for company %d", d.DayOfWeek, d.CompanyID)
}

func (s *businessDayService) Create(ctx context.Context, req dto.CreateBusinessDayRequest) (dto.BusinessDayDetail, error) {
	d := mappers.NewBusinessDayFromRequest(req)
	if err := s.validate(ctx, &d); err != nil {
		return dto.BusinessDayDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &d); err != nil {
		return dto.BusinessDayDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.BusinessDayDetail{}, err
	}
	return mappers.BusinessDayToDetail(d), nil
}

func (s *businessDayService) Update(ctx context.Context, id int64, req dto.UpdateBusinessDayRequest) (dto.BusinessDayDetail, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.BusinessDayDetail{}, err
	}
	mappers.ApplyBusinessDayUpdate(d, req)
	if err := s.validate(ctx, d); err != nil {
		return dto.BusinessDayDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, d); err != nil {
		return dto.BusinessDayDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.BusinessDayDetail{}, err
	}
	return mappers.BusinessDayToDetail(*d), nil
}

// InitializeWeek adds the days a company is missing: Monday to Friday working, weekend off.
// Existing rows are left alone. Returns the full week ordered by day.
func (s *businessDayService) InitializeWeek(ctx context.Context, companyID int64) ([]dto.BusinessDayListItem, error) {
	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		return nil, err
	}
	existing, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	have := map[int]bool{}
	for _, d := range existing {
		have[d.DayOfWeek] = true
	}

	ctx = repositories.Begin(ctx)
	added := make([]*domain.BusinessDay, 0, 7)
	for day := 0; day < 7; day++ {
		if have[day] {
			continue
		}
		d := &domain.BusinessDay{CompanyID: companyID, DayOfWeek: day, IsWorkingDay: day >= 1 && day <= 5}
		if err := s.repo.Add(ctx, d); err != nil {
			return nil, err
		}
		added = append(added, d)
	}
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	logger.Event(ctx, "business_day", "initialize_week", "week initialized", logger.EntityID(companyID), logger.Count(len(added)))

	week, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return domain.MapSlice(week, mappers.BusinessDayToListItem), nil
}

type BusinessHoursService interface {
	Resource[dto.BusinessHoursListItem, dto.BusinessHoursDetail, dto.CreateBusinessHoursRequest, dto.UpdateBusinessHoursRequest]
}

type businessHoursService struct {
	crud[domain.BusinessHours, dto.BusinessHoursListItem, dto.BusinessHoursDetail]
	repo      repositories.BusinessHoursRepository
	companies repositories.CompanyRepository
}

func NewBusinessHoursService(repo repositories.BusinessHoursRepository, companies repositories.CompanyRepository, opts Options) BusinessHoursService {
	s := &businessHoursService{repo: repo, companies: companies}
	s.crud = crud[domain.BusinessHours, dto.BusinessHoursListItem, dto.BusinessHoursDetail]{
		resource: "business hours",
		title:    "Business Hours",
		repo:     repo,
		toList:   mappers.BusinessHoursToListItem,
		toDetail: mappers.BusinessHoursToDetail,
		headers:  mappers.BusinessHoursExportHeaders,
		row:      mappers.BusinessHoursExportRow,
		opts:     opts,
	}
	return s
}

// validate enforces open < close and no overlap with other intervals of the same day.
// Times are zero-padded HH:MM so string comparison orders them.
func (s *businessHoursService) validate(ctx context.Context, h *domain.BusinessHours) error {
	if h.OpenTime >= h.CloseTime {
		return domain.Invalid("closeTime", "must be after openTime")
	}
	if err := mustExist(ctx, s.companies.Exists, "companyId", "company", h.CompanyID); err != nil {
		return err
	}
	others, err := s.repo.ListByCompanyDay(ctx, h.CompanyID, h.DayOfWeek)
	if err != nil {
		return err
	}
	for _, o := range others {
		if o.ID == h.ID {
			continue
		}
		if h.OpenTime < o.CloseTime && o.OpenTime < h.CloseTime {
			return domain.Conflict("business hours", fmt.Sprintf("overlaps %s-%s", o.OpenTime, o.CloseTime))
		}
	}
	return nil
}

func (s *businessHoursService) Create(ctx context.Context, req dto.CreateBusinessHoursRequest) (dto.BusinessHoursDetail, error) {
	h := mappers.NewBusinessHoursFromRequest(req)
	if err := s.validate(ctx, &h); err != nil {
		return dto.BusinessHoursDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &h); err != nil {
		return dto.BusinessHoursDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.BusinessHoursDetail{}, err
	}
	return mappers.BusinessHoursToDetail(h), nil
}

func (s *businessHoursService) Update(ctx context.Context, id int64, req dto.UpdateBusinessHoursRequest) (dto.BusinessHoursDetail, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.BusinessHoursDetail{}, err
	}
	mappers.ApplyBusinessHoursUpdate(h, req)
	if err := s.validate(ctx, h); err != nil {
		return dto.BusinessHoursDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, h); err != nil {
		return dto.BusinessHoursDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.BusinessHoursDetail{}, err
	}
	return mappers.BusinessHoursToDetail(*h), nil
}

type BusinessHolidayService interface {
	Resource[dto.BusinessHolidayListItem, dto.BusinessHolidayDetail, dto.CreateBusinessHolidayRequest, dto.UpdateBusinessHolidayRequest]
}

type businessHolidayService struct {
	crud[domain.BusinessHoliday, dto.BusinessHolidayListItem, dto.BusinessHolidayDetail]
	repo      repositories.BusinessHolidayRepository
	companies repositories.CompanyRepository
}

func NewBusinessHolidayService(repo repositories.BusinessHolidayRepository, companies repositories.CompanyRepository, opts Options) BusinessHolidayService {
	s := &businessHolidayService{repo: repo, companies: companies}
	s.crud = crud[domain.BusinessHoliday, dto.BusinessHolidayListItem, dto.BusinessHolidayDetail]{
		resource: "business holiday",
		title:    "Business Holidays",
		repo:     repo,
		toList:   mappers.BusinessHolidayToListItem,
		toDetail: mappers.BusinessHolidayToDetail,
		headers:  mappers.BusinessHolidayExportHeaders,
		row:      mappers.BusinessHolidayExportRow,
		opts:     opts,
	}
	return s
}

func (s *businessHolidayService) validate(ctx context.Context, h *domain.BusinessHoliday) error {
	if h.Date.IsZero() {
		return domain.Invalid("date", "must be a date (YYYY-MM-DD)")
	}
	if err := mustExist(ctx, s.companies.Exists, "companyId", "company", h.CompanyID); err != nil {
		return err
	}
	exists, err := s.repo.ExistsByDate(ctx, h.CompanyID, h.Date, h.ID)
	return conflictIf(exists, err, "business holiday", "a holiday on %s already exists", h.Date.Format("2006-01-02"))
}

func (s *businessHolidayService) Create(ctx context.Context, req dto.CreateBusinessHolidayRequest) (dto.BusinessHolidayDetail, error) {
	h := mappers.NewBusinessHolidayFromRequest(req)
	if err := s.validate(ctx, &h); err != nil {
		return dto.BusinessHolidayDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &h); err != nil {
		return dto.BusinessHolidayDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.BusinessHolidayDetail{}, err
	}
	return mappers.BusinessHolidayToDetail(h), nil
}

func (s *businessHolidayService) Update(ctx context.Context, id int64, req dto.UpdateBusinessHolidayRequest) (dto.BusinessHolidayDetail, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.BusinessHolidayDetail{}, err
	}
	mappers.ApplyBusinessHolidayUpdate(h, req)
	if err := s.validate(ctx, h); err != nil {
		return dto.BusinessHolidayDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, h); err != nil {
		return dto.BusinessHolidayDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.BusinessHolidayDetail{}, err
	}
	return mappers.BusinessHolidayToDetail(*h), nil
}
