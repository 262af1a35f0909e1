package auth

import (
	"errors"
	"strings"
	"unicode"

	"bizadmin/internal/config"
	"bizadmin/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt with a configured cost and policy.
type PasswordHasher struct {
	cost   int
	policy config.PasswordPolicy
}

func NewPasswordHasher(cfg config.AuthConfig) *PasswordHasher {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost, policy: cfg.PasswordPolicy}
}

func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.Invalid("password", "must be at most 72 bytes")
		}
		return "", domain.Internal("hash password", err)
	}
	return string(b), nil
}

func (h *PasswordHasher) Verify(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// CheckPolicy returns a ValidationError on field listing every unmet rule.
func (h *PasswordHasher) CheckPolicy(field, plain string) error {
	reasons := PolicyViolations(h.policy, plain)
	if len(reasons) == 0 {
		return nil
	}
	return domain.ValidationError{
		Field: field,
		Msg:   strings.Join(reasons, ", "),
		Fields: []domain.FieldError{
			{Field: field, Rule: "password_policy", Message: strings.Join(reasons, ", ")},
		},
	}
}

// PolicyViolations lists human readable reasons plain fails p.
func PolicyViolations(p config.PasswordPolicy, plain string) []string {
	var reasons []string
	if len([]rune(plain)) < p.MinLength {
		reasons = append(reasons, "too short")
	}
	var hasU, hasL, hasD, hasS bool
	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			hasU = true
		case unicode.IsLower(r):
			hasL = true
		case unicode.IsDigit(r):
			hasD = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasS = true
		}
	}
	if p.RequireUpper && !hasU {
		reasons = append(reasons, "missing uppercase letter")
	}
	if p.RequireLower && !hasL {
		reasons = append(reasons, "missing lowercase letter")
	}
	if p.RequireDigit && !hasD {
		reasons = append(reasons, "missing digit")
	}
	if p.RequireSymbol && !hasS {
		reasons = append(reasons, "missing symbol")
	}
	return reasons
}
