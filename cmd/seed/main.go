package main

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log"

	"backend/internal/app/ds"
	"backend/internal/app/dsn"
	"backend/internal/app/role"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Dev seed: one actor per role wired into a small Texas hierarchy.

func hash(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func main() {
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}

	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	admin := ds.User{Login: "admin1", Password: hash("admin123"), FullName: "Admin One", Roles: string(role.Admin)}
	manager := ds.User{Login: "manager1", Password: hash("manager123"), FullName: "Manager One", Roles: string(role.Manager), AssignedStates: "Texas,Arizona"}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal(err)
	}
	if err := db.Create(&manager).Error; err != nil {
		log.Fatal(err)
	}

	am := ds.User{
		Login: "am1", Password: hash("am123"), FullName: "Area Manager One",
		Roles: string(role.AreaManager), AssignedState: "Texas", AssignedCity: "Austin",
		SupervisorID: &manager.ID,
	}
	if err := db.Create(&am).Error; err != nil {
		log.Fatal(err)
	}

	sm := ds.User{
		Login: "sm1", Password: hash("sm123"), FullName: "Sales Manager One",
		Roles: string(role.SalesManager), AssignedState: "Texas", AssignedCity: "Austin",
		SupervisorID: &am.ID,
	}
	vendor := ds.User{Login: "vendor1", Password: hash("vendor123"), FullName: "Vendor One", Roles: string(role.Vendor)}
	client := ds.User{Login: "client1", Password: hash("client123"), FullName: "Client One", Roles: string(role.Client)}

	for _, u := range []*ds.User{&sm, &vendor, &client} {
		if err := db.Create(u).Error; err != nil {
			log.Fatal(err)
		}
	}

	fmt.Println("Seeded users:")
	for _, u := range []ds.User{admin, manager, am, sm, vendor, client} {
		fmt.Printf("ID: %d, Login: %s, Roles: %s\n", u.ID, u.Login, u.Roles)
	}
}
