package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/hugelabz/internal/events"
	"github.com/Skotchmaster/hugelabz/internal/models"
	"github.com/Skotchmaster/hugelabz/internal/repo"
	"github.com/Skotchmaster/hugelabz/pkg/logging"
)

const (
	codePrefix   = "HL-"
	codeLength   = 8
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type SerialService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

type VerifyResult struct {
	Success bool
	Serial  *models.SerialNumber
	Product *models.Product
	// AlreadyVerified reports the state before this call.
	AlreadyVerified bool
}

type BulkResult struct {
	Added   int
	Skipped int
}

func (s *SerialService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// NormalizeCode is the lookup key of a code: trimmed and lowercased.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Verify looks the code up case-insensitively and, on a hit, marks the serial
// verified. With a userID it also appends a ledger row; both writes commit
// together. A miss is reported through Success=false and writes nothing.
func (s *SerialService) Verify(ctx context.Context, code string, userID *uuid.UUID) (*VerifyResult, error) {
	l := logging.FromContext(ctx).With("svc", "serial.verify")

	key := NormalizeCode(code)
	if key == "" {
		return &VerifyResult{Success: false}, nil
	}

	serial, err := s.Repo.FindSerialByCodeKey(ctx, key)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Info("verify_miss", "code", code)
			return &VerifyResult{Success: false}, nil
		}
		return nil, err
	}

	product, err := s.Repo.GetProduct(ctx, serial.ProductID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		l.Warn("verify_dangling_product", "serial_id", serial.ID, "product_id", serial.ProductID)
	}

	now := s.now()
	wasVerified := serial.IsVerified

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if err := tx.MarkSerialVerified(ctx, serial.ID, now, userID); err != nil {
			return fmt.Errorf("mark serial verified: %w", err)
		}
		if userID == nil {
			return nil
		}
		rec := &models.VerificationRecord{
			SerialCode: serial.Code,
			ProductID:  serial.ProductID,
			UserID:     *userID,
			VerifiedAt: now,
		}
		if err := tx.CreateVerification(ctx, rec); err != nil {
			return fmt.Errorf("append verification: %w", err)
		}
		return nil
	})
	if err != nil {
		l.Error("verify_failed", "serial_id", serial.ID, "error", err)
		return nil, err
	}

	serial.IsVerified = true
	serial.VerifiedAt = &now
	if userID != nil {
		by := *userID
		serial.VerifiedBy = &by
	}
	serial.Product = nil

	event := map[string]any{
		"type":            "serial_verified",
		"serialID":        serial.ID,
		"code":            serial.Code,
		"productID":       serial.ProductID,
		"alreadyVerified": wasVerified,
		"verifiedAt":      now,
	}
	if userID != nil {
		event["userID"] = *userID
	}
	events.Emit(ctx, s.Events, events.TopicSerials, serial.ID.String(), event)

	return &VerifyResult{
		Success:         true,
		Serial:          serial,
		Product:         product,
		AlreadyVerified: wasVerified,
	}, nil
}

func (s *SerialService) AddSerial(ctx context.Context, code string, productID uuid.UUID) (*models.SerialNumber, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, wrap(ErrValidation, "code is required")
	}
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	key := NormalizeCode(code)
	if _, err := s.Repo.FindSerialByCodeKey(ctx, key); err == nil {
		return nil, wrap(ErrConflict, "serial number already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	serial := &models.SerialNumber{
		Code:      code,
		CodeKey:   key,
		ProductID: productID,
		CreatedAt: s.now(),
	}
	if err := s.Repo.CreateSerial(ctx, serial); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, wrap(ErrConflict, "serial number already exists")
		}
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicSerials, serial.ID.String(), map[string]any{
		"type":      "serial_added",
		"serialID":  serial.ID,
		"code":      serial.Code,
		"productID": productID,
	})
	return serial, nil
}

// BulkAddSerials registers codes for one product. Blank codes are dropped;
// codes already registered, or repeated within the batch, are skipped.
func (s *SerialService) BulkAddSerials(ctx context.Context, codes []string, productID uuid.UUID) (*BulkResult, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	res := &BulkResult{}
	seen := make(map[string]struct{}, len(codes))
	keys := make([]string, 0, len(codes))
	batch := make([]models.SerialNumber, 0, len(codes))
	now := s.now()

	for _, raw := range codes {
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		key := NormalizeCode(code)
		if _, dup := seen[key]; dup {
			res.Skipped++
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
		batch = append(batch, models.SerialNumber{Code: code, CodeKey: key, ProductID: productID, CreatedAt: now})
	}

	existing, err := s.Repo.ExistingCodeKeys(ctx, keys)
	if err != nil {
		return nil, err
	}

	fresh := batch[:0]
	for _, sn := range batch {
		if _, ok := existing[sn.CodeKey]; ok {
			res.Skipped++
			continue
		}
		fresh = append(fresh, sn)
	}

	inserted, err := s.Repo.InsertSerialsSkippingDuplicates(ctx, fresh)
	if err != nil {
		return nil, err
	}
	res.Added = int(inserted)
	res.Skipped += len(fresh) - int(inserted)

	if res.Added > 0 {
		events.Emit(ctx, s.Events, events.TopicSerials, productID.String(), map[string]any{
			"type":      "serials_bulk_added",
			"productID": productID,
			"added":     res.Added,
			"skipped":   res.Skipped,
		})
	}
	return res, nil
}

func (s *SerialService) ListSerials(ctx context.Context) ([]models.SerialNumber, error) {
	return s.Repo.ListSerials(ctx)
}

func (s *SerialService) DeleteSerial(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.Repo.DeleteSerial(ctx, id), "serial number")
}

func (s *SerialService) requireProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return wrap(ErrValidation, "productId is required")
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return storeErr(err, "product")
	}
	return nil
}

// ParseCodes splits a newline-separated upload into trimmed, non-blank codes.
func ParseCodes(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if code := strings.TrimSpace(line); code != "" {
			out = append(out, code)
		}
	}
	return out
}

// GenerateCode returns a random HL- code. It is not checked against the
// registry.
func GenerateCode() (string, error) {
	var b strings.Builder
	b.Grow(len(codePrefix) + codeLength)
	b.WriteString(codePrefix)

	size := big.NewInt(int64(len(codeAlphabet)))
	for range codeLength {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
