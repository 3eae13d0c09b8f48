package party

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
)

const (
	MinScore        Score = 1
	MaxScore        Score = 5
	MaxReviewLength       = 500
)

var (
	ErrRatingIsNotConstructed = errors.New("Rating must be created via NewRating constructor")
	ErrAlreadyRated           = errors.New("already rated")
)

type Score int

func (s Score) Validate() error {
	if s < MinScore || s > MaxScore {
		return errs.NewValueIsOutOfRangeError("score", int(s), int(MinScore), int(MaxScore))
	}
	return nil
}

type RatingType int

const (
	RatingTypeUnknown RatingType = iota
	BuyerToSeller
	SellerToBuyer
	BuyerToCourier
	SellerToCourier
)

var ratingTypeNames = map[RatingType]string{
	RatingTypeUnknown: "unknown",
	BuyerToSeller:     "buyer-to-seller",
	SellerToBuyer:     "seller-to-buyer",
	BuyerToCourier:    "buyer-to-courier",
	SellerToCourier:   "seller-to-courier",
}

func (t RatingType) String() string {
	if name, ok := ratingTypeNames[t]; ok {
		return name
	}
	return ratingTypeNames[RatingTypeUnknown]
}

func ParseRatingType(name string) (RatingType, error) {
	for t, n := range ratingTypeNames {
		if t != RatingTypeUnknown && n == name {
			return t, nil
		}
	}
	return RatingTypeUnknown, errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%q is not a valid rating type", name))
}

// RatingTypeFor derives the rating direction from the two roles. Couriers do
// not rate anyone.
func RatingTypeFor(rater, rated kernel.Role) (RatingType, error) {
	switch {
	case rater == kernel.RoleBuyer && rated == kernel.RoleSeller:
		return BuyerToSeller, nil
	case rater == kernel.RoleSeller && rated == kernel.RoleBuyer:
		return SellerToBuyer, nil
	case rater == kernel.RoleBuyer && rated == kernel.RoleCourier:
		return BuyerToCourier, nil
	case rater == kernel.RoleSeller && rated == kernel.RoleCourier:
		return SellerToCourier, nil
	}
	return RatingTypeUnknown, errs.NewValueIsInvalidErrorWithCause("type",
		fmt.Errorf("%s cannot rate %s", rater, rated))
}

// Rating is immutable once created.
type Rating struct {
	id          kernel.UUID
	orderID     kernel.UUID
	raterID     kernel.UUID
	ratedUserID kernel.UUID
	score       Score
	review      string
	ratingType  RatingType
	createdAt   time.Time

	isConstructed bool
}

func NewRating(orderID, raterID, ratedUserID kernel.UUID, score Score, review string, ratingType RatingType, now time.Time) (*Rating, error) {
	r := &Rating{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		raterID:       raterID,
		ratedUserID:   ratedUserID,
		score:         score,
		ratingType:    ratingType,
		review:        strings.TrimSpace(review),
		createdAt:     now.UTC(),
		isConstructed: true,
	}

	var typeErr error
	if ratingType <= RatingTypeUnknown || ratingType > SellerToCourier {
		typeErr = errs.NewValueIsInvalidError("type")
	}
	var selfErr error
	if raterID.IsEqual(ratedUserID) {
		selfErr = errs.NewValueIsInvalidErrorWithCause("ratedUserID", errors.New("members cannot rate themselves"))
	}
	var reviewErr error
	if utf8.RuneCountInString(r.review) > MaxReviewLength {
		reviewErr = errs.NewValueIsOutOfRangeError("review length", utf8.RuneCountInString(r.review), 0, MaxReviewLength)
	}

	if err := errors.Join(
		orderID.Validate(),
		raterID.Validate(),
		ratedUserID.Validate(),
		score.Validate(),
		typeErr,
		selfErr,
		reviewErr,
	); err != nil {
		return nil, err
	}
	return r, nil
}

func RestoreRating(id, orderID, raterID, ratedUserID kernel.UUID, score Score, review string, ratingType RatingType, createdAt time.Time) *Rating {
	return &Rating{
		id:            id,
		orderID:       orderID,
		raterID:       raterID,
		ratedUserID:   ratedUserID,
		score:         score,
		review:        review,
		ratingType:    ratingType,
		createdAt:     createdAt,
		isConstructed: true,
	}
}

func (r *Rating) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRatingIsNotConstructed
	}
	return nil
}

func (r *Rating) ID() kernel.UUID          { return r.id }
func (r *Rating) OrderID() kernel.UUID     { return r.orderID }
func (r *Rating) RaterID() kernel.UUID     { return r.raterID }
func (r *Rating) RatedUserID() kernel.UUID { return r.ratedUserID }
func (r *Rating) Score() Score             { return r.score }
func (r *Rating) Review() string           { return r.review }
func (r *Rating) Type() RatingType         { return r.ratingType }
func (r *Rating) CreatedAt() time.Time     { return r.createdAt }
