package main

import (
	"fmt"
	"log"
	"time"

	"slotline/internal/bookings"
	"slotline/internal/catalog"
	"slotline/internal/shared/config"
	"slotline/internal/shared/database"
	"slotline/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Slotline Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"appointments",
		"staff",
		"services",
		"salons",
		"users",
	}

	for _, table := range tables {
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll seeds users, salons, services, staff and a few appointments
func (s *Seeder) SeedAll() error {
	seededUsers, err := s.seedUsers()
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	salons, services, staff, err := s.seedCatalog()
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	if err := s.seedAppointments(seededUsers, salons, services, staff); err != nil {
		return fmt.Errorf("seed appointments: %w", err)
	}
	return nil
}

func (s *Seeder) seedUsers() ([]users.User, error) {
	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	seedUsers := []users.User{
		{
			ID:        uuid.New(),
			FirstName: "Admin",
			LastName:  "User",
			Email:     "admin@slotline.dev",
			Password:  string(password),
			Role:      users.RoleAdmin,
			Phone:     "+1-555-0100",
		},
		{
			ID:        uuid.New(),
			FirstName: "Maya",
			LastName:  "Rodriguez",
			Email:     "maya@example.com",
			Password:  string(password),
			Role:      users.RoleUser,
			Phone:     "+1-555-0101",
		},
		{
			ID:        uuid.New(),
			FirstName: "James",
			LastName:  "Chen",
			Email:     "james@example.com",
			Password:  string(password),
			Role:      users.RoleUser,
			Phone:     "+1-555-0102",
		},
		{
			ID:        uuid.New(),
			FirstName: "Priya",
			LastName:  "Patel",
			Email:     "priya@example.com",
			Password:  string(password),
			Role:      users.RoleUser,
			Phone:     "+1-555-0103",
		},
	}

	for i := range seedUsers {
		if err := s.db.PostgreSQL.Create(&seedUsers[i]).Error; err != nil {
			return nil, err
		}
	}

	fmt.Printf("   👤 Seeded %d users\n", len(seedUsers))
	return seedUsers, nil
}

func (s *Seeder) seedCatalog() ([]catalog.Salon, []catalog.Service, []catalog.Staff, error) {
	salons := []catalog.Salon{
		{
			ID:       uuid.New(),
			Name:     "Velvet & Vine Salon",
			Address:  "214 Orchard Street, Portland, OR",
			Phone:    "+1-555-0200",
			Timezone: "America/Los_Angeles",
			IsActive: true,
		},
		{
			ID:       uuid.New(),
			Name:     "The Clip Joint",
			Address:  "88 Harbor Ave, Seattle, WA",
			Phone:    "+1-555-0201",
			Timezone: "America/Los_Angeles",
			IsActive: true,
		},
	}
	for i := range salons {
		if err := s.db.PostgreSQL.Create(&salons[i]).Error; err != nil {
			return nil, nil, nil, err
		}
	}

	services := []catalog.Service{
		{ID: uuid.New(), SalonID: salons[0].ID, Name: "Balayage", Description: "Full balayage with toner", DurationMinutes: 150, Price: 220, IsActive: true},
		{ID: uuid.New(), SalonID: salons[0].ID, Name: "Women's Cut", Description: "Cut, wash and style", DurationMinutes: 60, Price: 75, IsActive: true},
		{ID: uuid.New(), SalonID: salons[1].ID, Name: "Men's Cut", Description: "Classic cut with hot towel finish", DurationMinutes: 45, Price: 40, IsActive: true},
		{ID: uuid.New(), SalonID: salons[1].ID, Name: "Beard Trim", Description: "Shape and line-up", DurationMinutes: 20, Price: 22, IsActive: true},
	}
	for i := range services {
		if err := s.db.PostgreSQL.Create(&services[i]).Error; err != nil {
			return nil, nil, nil, err
		}
	}

	staff := []catalog.Staff{
		{ID: uuid.New(), SalonID: salons[0].ID, Name: "Ava Thompson", Title: "Senior Colorist", IsActive: true},
		{ID: uuid.New(), SalonID: salons[0].ID, Name: "Noah Kim", Title: "Stylist", IsActive: true},
		{ID: uuid.New(), SalonID: salons[1].ID, Name: "Marcus Lee", Title: "Barber", IsActive: true},
	}
	for i := range staff {
		if err := s.db.PostgreSQL.Create(&staff[i]).Error; err != nil {
			return nil, nil, nil, err
		}
	}

	fmt.Printf("   💈 Seeded %d salons, %d services, %d staff\n", len(salons), len(services), len(staff))
	return salons, services, staff, nil
}

func (s *Seeder) seedAppointments(seededUsers []users.User, salons []catalog.Salon, services []catalog.Service, staff []catalog.Staff) error {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	appointments := []bookings.Appointment{
		{
			ID:         uuid.New(),
			UserID:     seededUsers[1].ID,
			SalonID:    salons[0].ID,
			ServiceID:  services[0].ID,
			StaffID:    &staff[0].ID,
			Date:       tomorrow,
			Time:       "10:00",
			Status:     "CONFIRMED",
			Source:     bookings.SourceDirect,
			BookingRef: bookings.NewBookingRef(),
		},
		{
			ID:         uuid.New(),
			UserID:     seededUsers[2].ID,
			SalonID:    salons[1].ID,
			ServiceID:  services[2].ID,
			StaffID:    &staff[2].ID,
			Date:       tomorrow,
			Time:       "14:00",
			Status:     "CONFIRMED",
			Source:     bookings.SourceDirect,
			BookingRef: bookings.NewBookingRef(),
		},
	}
	for i := range appointments {
		if err := s.db.PostgreSQL.Create(&appointments[i]).Error; err != nil {
			return err
		}
	}

	fmt.Printf("   📅 Seeded %d appointments\n", len(appointments))
	return nil
}
