package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"bizadmin/internal/auth"
	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
	"bizadmin/internal/logger"
	"bizadmin/internal/mappers"
	"bizadmin/internal/repositories"
)

type UserService interface {
	Resource[dto.UserListItem, dto.UserDetail, dto.CreateUserRequest, dto.UpdateUserRequest]
	AssignRoles(ctx context.Context, id int64, roleIDs []int64) (dto.UserDetail, error)
}

type userService struct {
	crud[domain.User, dto.UserListItem, dto.UserDetail]
	repo      repositories.UserRepository
	roles     repositories.RoleRepository
	companies repositories.CompanyRepository
	tokens    repositories.RefreshTokenRepository
	hasher    *auth.PasswordHasher
}

func NewUserService(
	repo repositories.UserRepository,
	roles repositories.RoleRepository,
	companies repositories.CompanyRepository,
	tokens repositories.RefreshTokenRepository,
	hasher *auth.PasswordHasher,
	opts Options,
) UserService {
	s := &userService{repo: repo, roles: roles, companies: companies, tokens: tokens, hasher: hasher}
	s.crud = crud[domain.User, dto.UserListItem, dto.UserDetail]{
		resource: "user",
		title:    "Users",
		repo:     repo,
		toList:   mappers.UserToListItem,
		toDetail: mappers.UserToDetail,
		headers:  mappers.UserExportHeaders,
		row:      mappers.UserExportRow,
		opts:     opts,
		beforeDelete: func(ctx context.Context, u *domain.User) error {
			if auth.FromContext(ctx).ID() == u.ID {
				return domain.Conflict("user", "you cannot delete your own account")
			}
			return nil
		},
		afterDelete: func(ctx context.Context, u *domain.User) error {
			_, err := revokeActiveTokens(ctx, tokens, u.ID, opts.now(), "", reasonRevoked)
			return err
		},
	}
	return s
}

func (s *userService) validate(ctx context.Context, u *domain.User) error {
	exists, err := s.repo.ExistsByUsername(ctx, u.Username, u.ID)
	if err := conflictIf(exists, err, "user", "username %s is already taken", u.Username); err != nil {
		return err
	}
	exists, err = s.repo.ExistsByEmail(ctx, u.Email, u.ID)
	if err := conflictIf(exists, err, "user", "email %s is already registered", u.Email); err != nil {
		return err
	}
	if u.CompanyID != nil {
		return mustExist(ctx, s.companies.Exists, "companyId", "company", *u.CompanyID)
	}
	return nil
}

// resolveRoles loads ids, failing when any of them does not exist.
func (s *userService) resolveRoles(ctx context.Context, ids []int64) ([]domain.Role, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []domain.Role{}, nil
	}
	roles, err := s.roles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if !slices.ContainsFunc(roles, func(r domain.Role) bool { return r.ID == id }) {
			return nil, domain.Invalid("roleIds", fmt.Sprintf("role %d does not exist", id))
		}
	}
	return roles, nil
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (dto.UserDetail, error) {
	if err := s.hasher.CheckPolicy("password", req.Password); err != nil {
		return dto.UserDetail{}, err
	}
	u := mappers.NewUserFromRequest(req)
	if err := s.validate(ctx, &u); err != nil {
		return dto.UserDetail{}, err
	}
	roles, err := s.resolveRoles(ctx, req.RoleIDs)
	if err != nil {
		return dto.UserDetail{}, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return dto.UserDetail{}, err
	}
	u.PasswordHash = hash

	ctx = repositories.Begin(ctx)
	if err := s.repo.Add(ctx, &u); err != nil {
		return dto.UserDetail{}, err
	}
	if len(roles) > 0 {
		if err := s.repo.ReplaceRoles(ctx, &u, roles); err != nil {
			return dto.UserDetail{}, err
		}
	}
	if err := s.save(ctx); err != nil {
		return dto.UserDetail{}, err
	}
	s.log(ctx, "create").Info("user created", logger.EntityID(u.ID), logger.Username(u.Username))
	return s.detail(ctx, u.ID)
}

func (s *userService) Update(ctx context.Context, id int64, req dto.UpdateUserRequest) (dto.UserDetail, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.UserDetail{}, err
	}
	mappers.ApplyUserUpdate(u, req)
	if err := s.validate(ctx, u); err != nil {
		return dto.UserDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.Update(ctx, u); err != nil {
		return dto.UserDetail{}, err
	}
	if !u.IsActive {
		if _, err := revokeActiveTokens(ctx, s.tokens, u.ID, s.opts.now(), "", reasonRevoked); err != nil {
			return dto.UserDetail{}, err
		}
	}
	if err := s.save(ctx); err != nil {
		return dto.UserDetail{}, err
	}
	return mappers.UserToDetail(*u), nil
}

// AssignRoles replaces the user's role set.
func (s *userService) AssignRoles(ctx context.Context, id int64, roleIDs []int64) (dto.UserDetail, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.UserDetail{}, err
	}
	roles, err := s.resolveRoles(ctx, roleIDs)
	if err != nil {
		return dto.UserDetail{}, err
	}
	ctx = repositories.Begin(ctx)
	if err := s.repo.ReplaceRoles(ctx, u, roles); err != nil {
		return dto.UserDetail{}, err
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return dto.UserDetail{}, err
	}
	if err := s.save(ctx); err != nil {
		return dto.UserDetail{}, err
	}
	logger.Event(ctx, "user", "assign_roles", "user roles replaced", logger.EntityID(u.ID), logger.Count(len(roles)))
	return s.detail(ctx, u.ID)
}

// revokeActiveTokens stages a revocation for every live refresh token of userID.
func revokeActiveTokens(ctx context.Context, tokens repositories.RefreshTokenRepository, userID int64, now time.Time, ip, reason string) (int, error) {
	active, err := tokens.ListActiveByUser(ctx, userID, now)
	if err != nil {
		return 0, err
	}
	for i := range active {
		t := &active[i]
		t.Revoke(now, ip, reason, "")
		if err := tokens.Update(ctx, t); err != nil {
			return 0, err
		}
	}
	return len(active), nil
}
