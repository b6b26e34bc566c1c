package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"slot-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	checkoutEndpoint = "POST /api/checkout"
	idempotencyTTL   = 24 * time.Hour
)

// checkoutIdempotent runs checkout at most once per (customer, key). A retry with the same
// request replays the stored booking; a retry with a different request is rejected.
func (uc *checkoutUseCaseImpl) checkoutIdempotent(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if in.IdempotencyKey == nil {
		return uc.checkout(ctx, in, nil)
	}

	now := uc.clock.Now()
	claim := shared.IdempotencyClaim{
		Key:         *in.IdempotencyKey,
		CustomerID:  in.Customer.ID,
		Endpoint:    checkoutEndpoint,
		RequestHash: checkoutRequestHash(in),
		ExpiresAt:   now.Add(idempotencyTTL),
	}

	replayID, err := uc.claimKey(ctx, claim, now)
	if err != nil {
		return nil, err
	}
	if replayID != nil {
		return uc.replay(ctx, *replayID)
	}

	result, err := uc.checkout(ctx, in, &claim)
	if err != nil {
		uc.releaseKey(ctx, claim)
		return nil, err
	}
	return result, nil
}

// claimKey returns the booking to replay, or nil when this call now holds the key.
func (uc *checkoutUseCaseImpl) claimKey(ctx context.Context, claim shared.IdempotencyClaim, now time.Time) (*uuid.UUID, error) {
	var replayID *uuid.UUID

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		replayID = nil

		inserted, err := tx.Idempotency().TryInsert(ctx, claim)
		if err != nil || inserted {
			return err
		}

		existing, err := tx.Reads().IdempotencyByKey(ctx, claim.Key, claim.CustomerID)
		if err != nil {
			return err
		}
		if !existing.ExpiresAt.After(now) {
			taken, err := tx.Idempotency().ClaimExpired(ctx, claim, now)
			if err != nil || taken {
				return err
			}
			return ErrIdempotencyInProgress
		}
		if existing.RequestHash != claim.RequestHash {
			return ErrIdempotencyKeyReused
		}
		if existing.Status == shared.IdempotencyStatusCompleted && existing.ResultBookingID != nil {
			replayID = existing.ResultBookingID
			return nil
		}
		return ErrIdempotencyInProgress
	})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	return replayID, nil
}

func (uc *checkoutUseCaseImpl) replay(ctx context.Context, bookingID uuid.UUID) (*CheckoutResult, error) {
	bk, err := uc.uow.CommandReads().BookingByID(ctx, bookingID)
	if err != nil {
		return nil, storeErr(err, ErrBookingNotFound)
	}

	slog.InfoContext(ctx, "checkout replayed from idempotency key",
		"booking_id", bookingID.String(),
		"status", bk.Status().String())

	result := toCheckoutResult(bk, uc.settings.Currency)
	result.Replayed = true
	return result, nil
}

// releaseKey lets the client retry a failed checkout with the same key.
func (uc *checkoutUseCaseImpl) releaseKey(ctx context.Context, claim shared.IdempotencyClaim) {
	ctx = context.WithoutCancel(ctx)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Release(ctx, claim.Key, claim.CustomerID)
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to release idempotency key",
			"idempotency_key", claim.Key.String(),
			"error", err.Error())
	}
}

func checkoutRequestHash(in CheckoutInput) string {
	data, _ := json.Marshal(struct {
		ResourceID    uuid.UUID `json:"resource_id"`
		Zone          string    `json:"zone"`
		Numeral       int       `json:"numeral"`
		From          time.Time `json:"from"`
		To            time.Time `json:"to"`
		PaymentMethod string    `json:"payment_method"`
		CouponCode    string    `json:"coupon_code"`
		VehicleID     string    `json:"vehicle_id"`
	}{
		ResourceID:    in.ResourceID,
		Zone:          normalized(&in.Zone),
		Numeral:       in.Numeral,
		From:          in.From.UTC(),
		To:            in.To.UTC(),
		PaymentMethod: normalized(&in.PaymentMethod),
		CouponCode:    normalized(in.CouponCode),
		VehicleID:     normalized(in.VehicleID),
	})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func normalized(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*s))
}
