package main

import (
	"context"
	"log"

	"garage_backend/pkg/config"
	"garage_backend/pkg/database"
	"garage_backend/pkg/garage"
	"garage_backend/pkg/models"
	"garage_backend/pkg/store"
	"garage_backend/pkg/utils"
)

const (
	demoEmail    = "demo@garage.local"
	demoPassword = "garage123"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.CloseDatabase()

	if err := database.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	svc := garage.NewService(database.DB, garage.WithProfile(config.LoadGarageProfile(config.AppConfig.GarageProfileFile)))

	op := seedOperator()
	ctx := store.WithOperator(context.Background(), op.ID)

	if err := svc.EnsureBuiltInTemplates(ctx); err != nil {
		log.Fatal("Failed to seed templates:", err)
	}
	seedWorkshop(ctx, svc)
}

func seedOperator() models.Operator {
	var op models.Operator
	if err := database.DB.Where("email = ?", demoEmail).First(&op).Error; err == nil {
		log.Printf("Operator %s already exists", demoEmail)
		return op
	}

	hashedPassword, err := utils.HashPassword(demoPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	op = models.Operator{
		Name:     "Demo Garage",
		Email:    demoEmail,
		Password: hashedPassword,
	}
	if err := database.DB.Create(&op).Error; err != nil {
		log.Fatal("Failed to create operator:", err)
	}

	log.Printf("✅ Operator %s created (password %s)", demoEmail, demoPassword)
	return op
}

// seedWorkshop adds one of each record, once
func seedWorkshop(ctx context.Context, svc *garage.Service) {
	customers, err := svc.ListCustomers(ctx, "")
	if err != nil {
		log.Fatal("Failed to list customers:", err)
	}
	if len(customers) > 0 {
		log.Println("Workshop data already seeded")
		return
	}

	customer, err := svc.CreateCustomer(ctx, garage.CustomerInput{
		Name:  "Raj Patil",
		Phone: "9876543210",
	})
	if err != nil {
		log.Fatal("Failed to create customer:", err)
	}

	year := 2021
	if _, err := svc.CreateBike(ctx, garage.BikeInput{
		CustomerID:         customer.ID,
		RegistrationNumber: "MH12AB1234",
		MakeModel:          "Honda Activa 6G",
		Year:               &year,
	}); err != nil {
		log.Fatal("Failed to create bike:", err)
	}

	item, err := svc.CreateInventoryItem(ctx, garage.InventoryInput{
		Name:          "Engine Oil 1L",
		StockQuantity: 20,
		MinStockLevel: 5,
		CostPrice:     280,
		SellingPrice:  350,
	})
	if err != nil {
		log.Fatal("Failed to create inventory item:", err)
	}

	if _, err := svc.CreatePackage(ctx, garage.PackageInput{
		Name:           "General Service",
		LaborCharge:    500,
		GSTApplicable:  true,
		ChecklistItems: []string{"Engine oil change", "Chain lubrication", "Brake adjustment"},
		Items: []garage.PackageItemInput{
			{InventoryItemID: &item.ID, Quantity: 1},
		},
	}); err != nil {
		log.Fatal("Failed to create package:", err)
	}

	log.Println("✅ Demo workshop seeded")
}
