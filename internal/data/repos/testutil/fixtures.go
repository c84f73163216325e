package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/yungbote/healx-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.User {
	tb.Helper()
	id := uuid.New()
	u := &types.User{
		ID:        id,
		Email:     id.String() + "@example.com",
		Role:      types.RolePatient,
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedMetric(tb testing.TB, ctx context.Context, tx *gorm.DB, code string, category types.MetricCategory, unit string) *types.MetricDefinition {
	tb.Helper()
	m := &types.MetricDefinition{
		Code:        code,
		DisplayName: code,
		Category:    category,
		Unit:        unit,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed metric: %v", err)
	}
	return m
}

func SeedRangedMetric(tb testing.TB, ctx context.Context, tx *gorm.DB, code string, unit string, refMin, refMax string) *types.MetricDefinition {
	tb.Helper()
	m := &types.MetricDefinition{
		Code:        code,
		DisplayName: code,
		Category:    types.MetricCategory("Blood"),
		Unit:        unit,
		RefMin:      decimal.NewNullDecimal(decimal.RequireFromString(refMin)),
		RefMax:      decimal.NewNullDecimal(decimal.RequireFromString(refMax)),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed ranged metric: %v", err)
	}
	return m
}

func SeedSource(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, trusted bool) *types.DataSource {
	tb.Helper()
	s := &types.DataSource{Name: name}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed source: %v", err)
	}
	if trusted {
		if err := tx.WithContext(ctx).Model(s).Update("is_trusted", true).Error; err != nil {
			tb.Fatalf("trust source: %v", err)
		}
		s.IsTrusted = true
	}
	return s
}

func PtrString(v string) *string { return &v }

func PtrInt(v int) *int { return &v }
