package verification

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"regexp"

	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/guard"
)

const (
	codeMin   = 100000
	codeRange = 900000
)

var (
	codePattern = regexp.MustCompile(`^[0-9]{6}$`)

	ErrCodeIsNotConstructed = errs.NewValueIsRequiredError("code must be created via NewCode or GenerateCode")
)

// Code is a six digit handoff code. Pickup and delivery each get their own
// code at order creation and codes are never regenerated.
type Code struct {
	digits string
	guard  guard.ConstructorGuard
}

func NewCode(digits string) (Code, error) {
	if !codePattern.MatchString(digits) {
		return Code{}, errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("%q is not a 6 digit code", digits))
	}
	return Code{digits: digits, guard: guard.NewConstructorGuard()}, nil
}

// GenerateCode draws uniformly from [100000, 999999] using crypto/rand.
func GenerateCode() (Code, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return Code{}, fmt.Errorf("generate code: %w", err)
	}
	return NewCode(fmt.Sprintf("%06d", n.Int64()+codeMin))
}

func (c Code) String() string { return c.digits }

func (c Code) Validate() error {
	return c.guard.Validate(ErrCodeIsNotConstructed)
}

// Matches compares in constant time.
func (c Code) Matches(presented string) bool {
	return subtle.ConstantTimeCompare([]byte(c.digits), []byte(presented)) == 1
}
