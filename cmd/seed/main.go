package main

import (
	"log"
	"os"
	"time"

	"spotsense/internal/database"
	"spotsense/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "spotsense.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM vehicles")
	db.Exec("DELETE FROM facilities")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")
	now := time.Now()

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@spotsense.io",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	db.Create(&admin)

	operatorHash, _ := bcrypt.GenerateFromPassword([]byte("operator123"), bcrypt.DefaultCost)
	operator := domain.User{
		Email:        "operator@spotsense.io",
		PasswordHash: string(operatorHash),
		Role:         domain.RoleOperator,
		Name:         "Gate Operator",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	db.Create(&operator)

	driverHash, _ := bcrypt.GenerateFromPassword([]byte("driver123"), bcrypt.DefaultCost)
	driver := domain.User{
		Email:        "driver@spotsense.io",
		PasswordHash: string(driverHash),
		Role:         domain.RoleDriver,
		Name:         "Demo Driver",
		Phone:        "+15550100",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	db.Create(&driver)

	log.Println("Creating vehicles...")
	vehicle := domain.Vehicle{
		UserID:       driver.ID,
		LicensePlate: "ABC-1234",
		Make:         "Toyota",
		Model:        "Corolla",
		Color:        "blue",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	db.Create(&vehicle)

	log.Println("Creating facilities...")
	facilities := []domain.Facility{
		{
			Name:          "Downtown Garage",
			Address:       "101 Main St",
			City:          "Springfield",
			TotalCapacity: 120,
			HourlyRate:    4.50,
			Currency:      "USD",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			Name:          "Airport Long-Stay",
			Address:       "1 Terminal Rd",
			City:          "Springfield",
			TotalCapacity: 450,
			HourlyRate:    2.00,
			Currency:      "USD",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			Name:          "Riverside Lot",
			Address:       "18 River Walk",
			City:          "Springfield",
			TotalCapacity: 35,
			HourlyRate:    3.25,
			Currency:      "USD",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
	for i := range facilities {
		db.Create(&facilities[i])
	}

	log.Println("Creating a demo booking...")
	start := now.Add(24 * time.Hour).Truncate(time.Hour)
	b, err := domain.NewBooking(domain.NewBookingParams{
		UserID:     driver.ID,
		VehicleID:  vehicle.ID,
		FacilityID: facilities[0].ID,
		Space:      domain.SpaceDescriptor{SpaceID: "A-12", Floor: 1, Section: "A", Type: "standard"},
		StartTime:  start,
		EndTime:    start.Add(3 * time.Hour),
		HourlyRate: facilities[0].HourlyRate,
		Currency:   facilities[0].Currency,
		Source:     "web",
	}, now)
	if err != nil {
		log.Fatal("demo booking failed:", err)
	}
	db.Create(&b)

	log.Printf("Done. Seeded %d users, 1 vehicle, %d facilities, 1 booking.", 3, len(facilities))
	log.Println("Logins: admin@spotsense.io/admin123, operator@spotsense.io/operator123, driver@spotsense.io/driver123")
}
