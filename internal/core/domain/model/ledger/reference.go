package ledger

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// DefaultReferencePrefix starts every generated reference.
const DefaultReferencePrefix = "TXN"

var (
	ErrReferenceCollision = errors.New("transaction reference collision")

	suffixSpace = big.NewInt(1_000_000)
)

// NewReference returns "<prefix>-<unix millis>-<6 random digits>".
func NewReference(prefix string, now time.Time) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultReferencePrefix
	}
	n, err := rand.Int(rand.Reader, suffixSpace)
	if err != nil {
		return "", fmt.Errorf("generate reference: %w", err)
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, now.UnixMilli(), n.Int64()), nil
}
