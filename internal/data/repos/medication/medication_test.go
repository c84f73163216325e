package medication

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/healx-backend/internal/data/repos/testutil"
	types "github.com/yungbote/healx-backend/internal/domain"
	domainmed "github.com/yungbote/healx-backend/internal/domain/medication"
)

func TestMedicationRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx)
	repo := NewMedicationRepo(db, testutil.Logger(t))

	if _, err := repo.Create(ctx, tx, []*types.Medication{
		{ID: uuid.New(), UserID: u.ID, Name: "Vitamin D3", Type: domainmed.TypeSupplement, IsActive: true},
		{ID: uuid.New(), UserID: u.ID, Name: "Amoxicillin", Type: domainmed.TypePrescription, IsActive: false},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := repo.ListByUser(ctx, tx, u.ID, false)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Amoxicillin" {
		t.Fatalf("ListByUser: unexpected result: %+v", all)
	}

	active, err := repo.ListByUser(ctx, tx, u.ID, true)
	if err != nil {
		t.Fatalf("ListByUser (active): %v", err)
	}
	if len(active) != 1 || active[0].Name != "Vitamin D3" {
		t.Fatalf("ListByUser (active): unexpected result: %+v", active)
	}
}
