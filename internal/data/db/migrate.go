package db

import (
	"fmt"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.SetupJoinTable(&types.Customer{}, "Roles", &types.CustomerRole{}); err != nil {
		return fmt.Errorf("setup customer_role join: %w", err)
	}
	if err := db.AutoMigrate(

		// =========================
		// Customers + auth
		// =========================
		&types.Customer{},
		&types.Role{},
		&types.CustomerRole{},
		&types.CustomerToken{},

		// =========================
		// Catalog
		// =========================
		&types.Category{},
		&types.Product{},
		&types.ProductCategory{},

		// =========================
		// Sales
		// =========================
		&types.Cart{},
		&types.CartItem{},
		&types.Order{},
		&types.OrderItem{},

		// =========================
		// Events
		// =========================
		&types.OutboxEvent{},
	); err != nil {
		return err
	}
	return EnsureSalesIndexes(db)
}

func EnsureSalesIndexes(db *gorm.DB) error {
	// analytics scans by date, customer pages by customer
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_order_customer_date ON "order"(customer_id, order_date);`).Error; err != nil {
		return fmt.Errorf("create idx_order_customer_date: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_cart_item_cart_product ON cart_item(cart_id, product_id);`).Error; err != nil {
		return fmt.Errorf("create idx_cart_item_cart_product: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_order_item_order_product ON order_item(order_id, product_id);`).Error; err != nil {
		return fmt.Errorf("create idx_order_item_order_product: %w", err)
	}
	// relay polls pending rows oldest first
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_outbox_event_status_created ON outbox_event(status, created_at);`).Error; err != nil {
		return fmt.Errorf("create idx_outbox_event_status_created: %w", err)
	}
	return nil
}

// SeedRoles makes sure the built-in roles exist.
func SeedRoles(db *gorm.DB) error {
	for _, name := range []string{types.RoleAdmin, types.RoleCustomer} {
		role := types.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}
