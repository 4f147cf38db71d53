package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/lojf/tuition/internal/models"
)

// ChildSummary is the per-child balance row served by the payments API.
type ChildSummary struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	TotalAmount      float64 `json:"totalAmount"`
	PaidAmount       float64 `json:"paidAmount"`
	RemainingAmount  float64 `json:"remainingAmount"`
	RegistrationType *string `json:"registrationType"`
}

// Summarize derives the balance for one child from its payments and the
// newest of its fees. Fee slice order does not matter.
func Summarize(c models.Child) ChildSummary {
	var paid float64
	for _, p := range c.Payments {
		paid += p.Amount
	}

	s := ChildSummary{ID: c.ID, Name: c.Name, PaidAmount: paid}
	if fee := LatestFee(c.Fees); fee != nil {
		s.TotalAmount = fee.TotalAmount
		if fee.RegistrationType != "" {
			rt := fee.RegistrationType
			s.RegistrationType = &rt
		}
	}
	s.RemainingAmount = s.TotalAmount - paid
	return s
}

// LatestFee returns the fee with the greatest CreatedAt (ties: greater ID),
// or nil for an empty slice.
func LatestFee(fees []models.Fee) *models.Fee {
	var latest *models.Fee
	for i := range fees {
		f := &fees[i]
		if latest == nil ||
			f.CreatedAt.After(latest.CreatedAt) ||
			(f.CreatedAt.Equal(latest.CreatedAt) && f.ID > latest.ID) {
			latest = f
		}
	}
	return latest
}

// ChildSummaries loads every child in store order and summarizes each.
func ChildSummaries(tx *gorm.DB) ([]ChildSummary, error) {
	children, err := LoadChildren(tx)
	if err != nil {
		return nil, err
	}
	out := make([]ChildSummary, 0, len(children))
	for _, c := range children {
		out = append(out, Summarize(c))
	}
	return out, nil
}

// FindChildSummary summarizes a single child. A missing child surfaces as
// gorm.ErrRecordNotFound (wrapped).
func FindChildSummary(tx *gorm.DB, id string) (ChildSummary, error) {
	var child models.Child
	if err := tx.Preload("Payments").Where("id = ?", id).First(&child).Error; err != nil {
		return ChildSummary{}, fmt.Errorf("load child %s: %w", id, err)
	}
	latest, err := latestFees(tx, []string{child.ID})
	if err != nil {
		return ChildSummary{}, err
	}
	if f, ok := latest[child.ID]; ok {
		child.Fees = []models.Fee{f}
	}
	return Summarize(child), nil
}

// LoadChildren returns all children with every payment attached and Fees
// holding at most the latest fee. Payments and fees are read in full rather
// than by an IN list so the child count is not bound by SQLite's variable cap.
func LoadChildren(tx *gorm.DB) ([]models.Child, error) {
	var children []models.Child
	if err := tx.Find(&children).Error; err != nil {
		return nil, fmt.Errorf("load children: %w", err)
	}
	if len(children) == 0 {
		return children, nil
	}

	var payments []models.Payment
	if err := tx.Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	byChild := make(map[string][]models.Payment, len(children))
	for _, p := range payments {
		byChild[p.ChildID] = append(byChild[p.ChildID], p)
	}

	latest, err := latestFees(tx, nil)
	if err != nil {
		return nil, err
	}
	for i := range children {
		children[i].Payments = byChild[children[i].ID]
		if f, ok := latest[children[i].ID]; ok {
			children[i].Fees = []models.Fee{f}
		}
	}
	return children, nil
}

// latestFees picks one fee per child in a single windowed query; nil
// childIDs means every child. A plain Preload with Limit(1) would cap the
// whole result set, not each child. julianday compares instants, so rows
// written with different UTC offsets still order correctly.
func latestFees(tx *gorm.DB, childIDs []string) (map[string]models.Fee, error) {
	where, args := "", []any{}
	if childIDs != nil {
		where, args = "WHERE child_id IN ?", []any{childIDs}
	}

	var fees []models.Fee
	err := tx.Raw(`
		SELECT id, created_at, updated_at, child_id, total_amount, registration_type
		FROM (
			SELECT fees.*,
				ROW_NUMBER() OVER (
					PARTITION BY child_id
					ORDER BY julianday(created_at) DESC, created_at DESC, id DESC
				) AS rn
			FROM fees
			`+where+`
		)
		WHERE rn = 1`, args...).
		Scan(&fees).Error
	if err != nil {
		return nil, fmt.Errorf("load latest fees: %w", err)
	}

	out := make(map[string]models.Fee, len(fees))
	for _, f := range fees {
		out[f.ChildID] = f
	}
	return out, nil
}
