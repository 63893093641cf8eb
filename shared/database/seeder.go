package database

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/utils/auth"
	"b2bak-backend/shared/utils/permission"
	"b2bak-backend/shared/workflow"
)

// noopDispatcher stands in for the redis queue during seeding so the seeder
// does not need a running broker.
type noopDispatcher struct{}

func (noopDispatcher) EnqueueRequestPublished(ctx context.Context, requestID uuid.UUID) error {
	return nil
}

// SeedDatabase creates a buyer and a vendor organization with one user per
// role, then walks a request all the way from draft to a paid deal through
// the workflow engine so the demo data carries a real audit trail. Running
// against a non-empty database is a no-op.
func SeedDatabase(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Organization{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Database already seeded, skipping")
		return nil
	}

	ctx := context.Background()
	buyerOrg := &models.Organization{Name: "Acme Manufacturing"}
	vendorOrg := &models.Organization{Name: "Bolt Industrial Supplies"}

	var buyer, vendor *models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(buyerOrg).Error; err != nil {
			return err
		}
		if err := tx.Create(vendorOrg).Error; err != nil {
			return err
		}

		users := []struct {
			org   *models.Organization
			email string
			name  string
			role  models.Role
		}{
			{buyerOrg, "owner@acme.test", "Olivia Owner", models.RoleOrgOwner},
			{buyerOrg, "admin@acme.test", "Andre Admin", models.RoleAdmin},
			{buyerOrg, "buyer@acme.test", "Bella Buyer", models.RoleBuyer},
			{buyerOrg, "viewer@acme.test", "Vic Viewer", models.RoleViewer},
			{vendorOrg, "owner@bolt.test", "Oscar Owner", models.RoleOrgOwner},
			{vendorOrg, "sales@bolt.test", "Vera Vendor", models.RoleVendor},
		}
		for _, u := range users {
			hash, err := auth.HashPassword("password123")
			if err != nil {
				return err
			}
			user := &models.User{
				OrgID:        u.org.ID,
				Email:        u.email,
				PasswordHash: hash,
				Role:         u.role,
				DisplayName:  u.name,
			}
			if err := tx.Create(user).Error; err != nil {
				return err
			}
			switch u.email {
			case "buyer@acme.test":
				buyer = user
			case "sales@bolt.test":
				vendor = user
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("Seeded organizations %s and %s", buyerOrg.Name, vendorOrg.Name)

	// Walk one request through the full lifecycle.
	engine := workflow.NewEngine(NewStore(db), noopDispatcher{})
	buyerActor := permission.Actor{UserID: buyer.ID, OrgID: buyer.OrgID, Role: buyer.Role}
	vendorActor := permission.Actor{UserID: vendor.ID, OrgID: vendor.OrgID, Role: vendor.Role}

	req, err := engine.CreateRequest(ctx, buyerActor, workflow.CreateRequestInput{
		Title:        "CNC machining for bracket series",
		Description:  "5000 units of aluminum brackets, anodized, per attached drawings.",
		BudgetCents:  2_500_000,
		Currency:     "USD",
		DeadlineDate: time.Now().UTC().AddDate(0, 1, 0),
		Tags:         []string{"machining", "aluminum"},
	})
	if err != nil {
		return err
	}
	if _, err := engine.PublishRequest(ctx, buyerActor, req.ID, "seed-publish-"+req.ID.String()); err != nil {
		return err
	}

	winning, err := engine.CreateQuote(ctx, vendorActor, workflow.CreateQuoteInput{
		RequestID:    req.ID,
		AmountCents:  2_200_000,
		TimelineDays: 30,
		Terms:        "Net 30, delivery in two batches.",
	})
	if err != nil {
		return err
	}
	if _, err := engine.CreateQuote(ctx, vendorActor, workflow.CreateQuoteInput{
		RequestID:    req.ID,
		AmountCents:  2_400_000,
		TimelineDays: 21,
		Terms:        "Net 15, expedited single batch.",
	}); err != nil {
		return err
	}

	if _, err := engine.ShortlistRequest(ctx, buyerActor, req.ID); err != nil {
		return err
	}
	deal, err := engine.AwardRequest(ctx, buyerActor, req.ID, winning.ID)
	if err != nil {
		return err
	}
	if _, err := engine.CreateMessage(ctx, vendorActor, deal.ID, "Thanks for the award, kicking off production this week."); err != nil {
		return err
	}
	if _, err := engine.CreateInvoice(ctx, buyerActor, deal.ID); err != nil {
		return err
	}
	if _, err := engine.MarkDealPaid(ctx, buyerActor, deal.ID); err != nil {
		return err
	}

	log.Printf("Seeded worked example: request %s awarded to deal %s (paid)", req.ID, deal.ID)
	return nil
}
