package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/wishlist-management/internal/wish"
	wishPostgres "github.com/frahmantamala/wishlist-management/internal/wish/postgres"
)

func TestWishPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Wish Postgres Suite")
}

// SQLiteWish is a SQLite-compatible model for testing
type SQLiteWish struct {
	ID          int64     `gorm:"primaryKey"`
	OwnerID     int64     `gorm:"column:owner_id;not null"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	URL         *string   `gorm:"column:url"`
	PriceCents  *int64    `gorm:"column:price_cents"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SQLiteWish) TableName() string {
	return "wishes"
}

// SQLiteList is a SQLite-compatible model for testing
type SQLiteList struct {
	ID           int64     `gorm:"primaryKey"`
	OwnerID      int64     `gorm:"column:owner_id;not null"`
	Title        string    `gorm:"column:title;not null"`
	Slug         string    `gorm:"column:slug;uniqueIndex;not null"`
	Visibility   string    `gorm:"column:visibility;default:private"`
	PasswordHash *string   `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteList) TableName() string {
	return "lists"
}

// SQLiteListWish is a SQLite-compatible model for testing
type SQLiteListWish struct {
	ListID  int64     `gorm:"column:list_id;primaryKey"`
	WishID  int64     `gorm:"column:wish_id;primaryKey"`
	AddedAt time.Time `gorm:"column:added_at;default:CURRENT_TIMESTAMP"`
}

func (SQLiteListWish) TableName() string {
	return "list_wishes"
}

// SQLiteReservation is a SQLite-compatible model for testing
type SQLiteReservation struct {
	ID         int64     `gorm:"primaryKey"`
	WishID     int64     `gorm:"column:wish_id;uniqueIndex;not null"`
	UserID     int64     `gorm:"column:user_id;not null"`
	Note       string    `gorm:"column:note"`
	ReservedAt time.Time `gorm:"column:reserved_at;default:CURRENT_TIMESTAMP"`
}

func (SQLiteReservation) TableName() string {
	return "reservations"
}

var _ = Describe("WishRepository", func() {
	var (
		db   *gorm.DB
		repo wish.Repository
	)

	const (
		listID  = int64(10)
		ownerID = int64(1)
	)

	strPtr := func(s string) *string { return &s }
	int64Ptr := func(n int64) *int64 { return &n }

	seedList := func(id int64, slug string, passwordHash *string) {
		err := db.Create(&SQLiteList{
			ID:           id,
			OwnerID:      ownerID,
			Title:        "List " + slug,
			Slug:         slug,
			Visibility:   "private",
			PasswordHash: passwordHash,
		}).Error
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		var err error

		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		// Create the tables using SQLite-compatible models
		err = db.AutoMigrate(&SQLiteWish{}, &SQLiteList{}, &SQLiteListWish{}, &SQLiteReservation{})
		Expect(err).NotTo(HaveOccurred())

		seedList(listID, "birthday", nil)

		repo = wishPostgres.NewWishRepository(db)
	})

	Describe("CreateInList", func() {
		It("should persist the wish together with its list link", func() {
			w := &wish.Wish{
				OwnerID:    ownerID,
				Title:      "Red Bicycle",
				URL:        strPtr("https://shop.example.com/bike"),
				PriceCents: int64Ptr(25000),
			}

			err := repo.CreateInList(w, listID)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.ID).To(BeNumerically(">", 0))
			Expect(w.CreatedAt).NotTo(BeZero())

			var link SQLiteListWish
			err = db.Where("wish_id = ?", w.ID).First(&link).Error
			Expect(err).NotTo(HaveOccurred())
			Expect(link.ListID).To(Equal(listID))
		})

		It("should leave nothing behind when the link insert fails", func() {
			first := &wish.Wish{OwnerID: ownerID, Title: "Bike"}
			Expect(repo.CreateInList(first, listID)).To(Succeed())

			// Occupy the link slot the next wish would take.
			err := db.Create(&SQLiteListWish{ListID: listID, WishID: first.ID + 1}).Error
			Expect(err).NotTo(HaveOccurred())

			err = repo.CreateInList(&wish.Wish{OwnerID: ownerID, Title: "Book"}, listID)
			Expect(err).To(HaveOccurred())

			var count int64
			Expect(db.Model(&SQLiteWish{}).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("GetByID", func() {
		It("should return the stored wish with its optional fields", func() {
			w := &wish.Wish{
				OwnerID:    ownerID,
				Title:      "Red Bicycle",
				URL:        strPtr("https://shop.example.com/bike"),
				PriceCents: int64Ptr(25000),
			}
			Expect(repo.CreateInList(w, listID)).To(Succeed())

			got, err := repo.GetByID(w.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Title).To(Equal("Red Bicycle"))
			Expect(*got.URL).To(Equal("https://shop.example.com/bike"))
			Expect(*got.PriceCents).To(Equal(int64(25000)))
		})

		It("should return nil for an unknown wish", func() {
			got, err := repo.GetByID(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})

	Describe("Update", func() {
		It("should persist the changed fields", func() {
			w := &wish.Wish{OwnerID: ownerID, Title: "Bike", Description: "red one"}
			Expect(repo.CreateInList(w, listID)).To(Succeed())

			w.Title = "Blue Bicycle"
			w.PriceCents = int64Ptr(19900)
			err := repo.Update(w)
			Expect(err).NotTo(HaveOccurred())

			got, err := repo.GetByID(w.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Title).To(Equal("Blue Bicycle"))
			Expect(got.Description).To(Equal("red one"))
			Expect(*got.PriceCents).To(Equal(int64(19900)))
		})

		It("should write NULL when the URL is cleared", func() {
			w := &wish.Wish{OwnerID: ownerID, Title: "Bike", URL: strPtr("https://example.com")}
			Expect(repo.CreateInList(w, listID)).To(Succeed())

			w.URL = nil
			Expect(repo.Update(w)).To(Succeed())

			got, err := repo.GetByID(w.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.URL).To(BeNil())
		})
	})

	Describe("Delete", func() {
		It("should remove the wish with its reservation and list links", func() {
			w := &wish.Wish{OwnerID: ownerID, Title: "Bike"}
			Expect(repo.CreateInList(w, listID)).To(Succeed())
			err := db.Create(&SQLiteReservation{WishID: w.ID, UserID: 5}).Error
			Expect(err).NotTo(HaveOccurred())

			err = repo.Delete(w.ID)
			Expect(err).NotTo(HaveOccurred())

			got, err := repo.GetByID(w.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())

			var links, reservations int64
			Expect(db.Model(&SQLiteListWish{}).Count(&links).Error).NotTo(HaveOccurred())
			Expect(db.Model(&SQLiteReservation{}).Count(&reservations).Error).NotTo(HaveOccurred())
			Expect(links).To(BeZero())
			Expect(reservations).To(BeZero())
		})

		It("should leave other wishes in the list untouched", func() {
			keep := &wish.Wish{OwnerID: ownerID, Title: "Book"}
			gone := &wish.Wish{OwnerID: ownerID, Title: "Bike"}
			Expect(repo.CreateInList(keep, listID)).To(Succeed())
			Expect(repo.CreateInList(gone, listID)).To(Succeed())
			err := db.Create(&SQLiteReservation{WishID: keep.ID, UserID: 5}).Error
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.Delete(gone.ID)).To(Succeed())

			got, err := repo.GetByID(keep.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Title).To(Equal("Book"))

			var reservations int64
			Expect(db.Model(&SQLiteReservation{}).Count(&reservations).Error).NotTo(HaveOccurred())
			Expect(reservations).To(Equal(int64(1)))
		})
	})

	Describe("ListForList", func() {
		It("should return the list's wishes in the order they were added", func() {
			base := time.Now().UTC().Add(-time.Hour)

			second := &wish.Wish{OwnerID: ownerID, Title: "Book"}
			first := &wish.Wish{OwnerID: ownerID, Title: "Bike"}
			Expect(repo.CreateInList(second, listID)).To(Succeed())
			Expect(repo.CreateInList(first, listID)).To(Succeed())

			// SQLite timestamps are second-resolution, so pin the order.
			err := db.Model(&SQLiteListWish{}).Where("wish_id = ?", first.ID).
				Update("added_at", base).Error
			Expect(err).NotTo(HaveOccurred())
			err = db.Model(&SQLiteListWish{}).Where("wish_id = ?", second.ID).
				Update("added_at", base.Add(30*time.Minute)).Error
			Expect(err).NotTo(HaveOccurred())

			wishes, err := repo.ListForList(listID)
			Expect(err).NotTo(HaveOccurred())
			Expect(wishes).To(HaveLen(2))
			Expect(wishes[0].Title).To(Equal("Bike"))
			Expect(wishes[1].Title).To(Equal("Book"))
		})

		It("should not leak wishes from other lists", func() {
			seedList(11, "christmas", nil)
			here := &wish.Wish{OwnerID: ownerID, Title: "Bike"}
			there := &wish.Wish{OwnerID: ownerID, Title: "Socks"}
			Expect(repo.CreateInList(here, listID)).To(Succeed())
			Expect(repo.CreateInList(there, 11)).To(Succeed())

			wishes, err := repo.ListForList(listID)
			Expect(err).NotTo(HaveOccurred())
			Expect(wishes).To(HaveLen(1))
			Expect(wishes[0].Title).To(Equal("Bike"))
		})

		It("should return an empty result for a list without wishes", func() {
			wishes, err := repo.ListForList(listID)
			Expect(err).NotTo(HaveOccurred())
			Expect(wishes).To(BeEmpty())
		})
	})

	Describe("GetListPasswordHash", func() {
		It("should return the stored hash", func() {
			seedList(12, "secret", strPtr("$2a$10$hash"))

			hash, err := repo.GetListPasswordHash(12)
			Expect(err).NotTo(HaveOccurred())
			Expect(hash).To(Equal("$2a$10$hash"))
		})

		It("should return empty for a list without a password", func() {
			hash, err := repo.GetListPasswordHash(listID)
			Expect(err).NotTo(HaveOccurred())
			Expect(hash).To(BeEmpty())
		})

		It("should return empty for an unknown list", func() {
			hash, err := repo.GetListPasswordHash(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(hash).To(BeEmpty())
		})
	})
})
