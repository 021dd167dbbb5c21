package ingest

import (
	"errors"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/errors"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/market"
)

var (
	ErrMissingDate  = errors.New("snapshot date is missing")
	ErrMissingCoins = errors.New("snapshot coins array is missing")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSnapshot checks the batch-level shape of an extractor
// candidate before any writes happen: date must be present and coins
// must be a present (possibly empty) array. Per-coin field problems
// are not batch errors; they surface item by item during
// reconciliation.
func ValidateSnapshot(snapshot *market.Snapshot) error {
	if snapshot == nil {
		return apperrors.BadRequestError(ErrMissingCoins, "snapshot is empty")
	}
	if snapshot.Date == "" {
		return apperrors.BadRequestError(ErrMissingDate, "date is required")
	}
	if snapshot.Coins == nil {
		return apperrors.BadRequestError(ErrMissingCoins, "coins array is required")
	}
	return nil
}

// ValidateCoinEntry checks one coin entry ahead of its upsert.
func ValidateCoinEntry(entry *market.CoinEntry) error {
	if entry.Symbol == "" {
		return errors.New("coin symbol is required")
	}
	if err := validate.Struct(entry); err != nil {
		return err
	}
	return nil
}
