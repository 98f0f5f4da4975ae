package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			// Children before parents
			tables := []string{
				"reservations", "list_wishes", "wishes",
				"list_admins", "list_groups", "list_invitations",
				"user_groups", "groups", "lists", "users",
			}
			for _, table := range tables {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUser := func(email, name, role string, isAdmin bool) int64 {
			var id int64
			if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err == nil {
				fmt.Println("user already exists:", email)
				return id
			}

			if err := db.Exec("INSERT INTO users (email, name, password_hash, is_admin, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, now(), now())",
				email, name, string(hash), isAdmin, role).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", email, err)
			}
			if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err != nil {
				log.Fatalf("failed to look up user %s: %v", email, err)
			}
			fmt.Println("Seeded user:", email)
			return id
		}

		aliceID := seedUser("alice@mail.com", "Alice Admin", "admin", true)
		bobID := seedUser("bob@mail.com", "Bob", "user", false)
		carolID := seedUser("carol@mail.com", "Carol", "user", false)

		// Family group owned by Bob, Carol as a plain member
		var familyID int64
		if err := db.Raw("SELECT id FROM groups WHERE owner_id = ? AND name = ?", bobID, "Family").Row().Scan(&familyID); err != nil {
			if err := db.Exec("INSERT INTO groups (owner_id, name, description, created_at, updated_at) VALUES (?, ?, ?, now(), now())",
				bobID, "Family", "Close family members").Error; err != nil {
				log.Fatalf("failed to insert group: %v", err)
			}
			if err := db.Raw("SELECT id FROM groups WHERE owner_id = ? AND name = ?", bobID, "Family").Row().Scan(&familyID); err != nil {
				log.Fatalf("failed to look up group: %v", err)
			}
			fmt.Println("Seeded group: Family")
		}

		if err := db.Exec("INSERT INTO user_groups (user_id, group_id, role, joined_at) VALUES (?, ?, 'admin', now()) ON CONFLICT DO NOTHING",
			bobID, familyID).Error; err != nil {
			log.Fatalf("failed to insert owner membership: %v", err)
		}
		if err := db.Exec("INSERT INTO user_groups (user_id, group_id, role, joined_at) VALUES (?, ?, 'member', now()) ON CONFLICT DO NOTHING",
			carolID, familyID).Error; err != nil {
			log.Fatalf("failed to insert member: %v", err)
		}

		seedList := func(ownerID int64, title, slug, visibility string) int64 {
			var id int64
			if err := db.Raw("SELECT id FROM lists WHERE slug = ?", slug).Row().Scan(&id); err == nil {
				fmt.Println("list already exists:", slug)
				return id
			}

			if err := db.Exec("INSERT INTO lists (owner_id, title, slug, visibility, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now())",
				ownerID, title, slug, visibility).Error; err != nil {
				log.Fatalf("failed to insert list %s: %v", slug, err)
			}
			if err := db.Raw("SELECT id FROM lists WHERE slug = ?", slug).Row().Scan(&id); err != nil {
				log.Fatalf("failed to look up list %s: %v", slug, err)
			}
			fmt.Println("Seeded list:", slug)
			return id
		}

		birthdayID := seedList(bobID, "Bob's Birthday", "bobs-birthday", "private")
		seedList(aliceID, "Alice's Wishlist", "alices-wishlist", "public")

		// Share Bob's list with the family and let Carol co-manage it
		if err := db.Exec("INSERT INTO list_groups (list_id, group_id, shared_by, created_at) VALUES (?, ?, ?, now()) ON CONFLICT DO NOTHING",
			birthdayID, familyID, bobID).Error; err != nil {
			log.Fatalf("failed to share list with group: %v", err)
		}
		if err := db.Exec("INSERT INTO list_admins (list_id, user_id, added_by, added_at) VALUES (?, ?, ?, now()) ON CONFLICT DO NOTHING",
			birthdayID, carolID, bobID).Error; err != nil {
			log.Fatalf("failed to add co-manager: %v", err)
		}

		seedWish := func(ownerID, listID int64, title string, priceCents int64) int64 {
			var id int64
			if err := db.Raw("SELECT w.id FROM wishes w JOIN list_wishes lw ON lw.wish_id = w.id WHERE lw.list_id = ? AND w.title = ?", listID, title).Row().Scan(&id); err == nil {
				fmt.Println("wish already exists:", title)
				return id
			}

			if err := db.Exec("INSERT INTO wishes (owner_id, title, price_cents, created_at, updated_at) VALUES (?, ?, ?, now(), now())",
				ownerID, title, priceCents).Error; err != nil {
				log.Fatalf("failed to insert wish %s: %v", title, err)
			}
			if err := db.Raw("SELECT id FROM wishes WHERE owner_id = ? AND title = ? ORDER BY id DESC LIMIT 1", ownerID, title).Row().Scan(&id); err != nil {
				log.Fatalf("failed to look up wish %s: %v", title, err)
			}
			if err := db.Exec("INSERT INTO list_wishes (list_id, wish_id, added_at) VALUES (?, ?, now()) ON CONFLICT DO NOTHING",
				listID, id).Error; err != nil {
				log.Fatalf("failed to link wish %s: %v", title, err)
			}
			fmt.Println("Seeded wish:", title)
			return id
		}

		seedWish(bobID, birthdayID, "Mountain Bike", 899000)
		grinderID := seedWish(bobID, birthdayID, "Coffee Grinder", 24900)

		// Alice quietly claims the grinder
		if err := db.Exec("INSERT INTO reservations (wish_id, user_id, note, reserved_at) VALUES (?, ?, ?, now()) ON CONFLICT DO NOTHING",
			grinderID, aliceID, "Got this one!").Error; err != nil {
			log.Fatalf("failed to insert reservation: %v", err)
		}

		fmt.Println("Sample data seeded successfully")
	},
}
