package wish_test

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/permission"
	"github.com/frahmantamala/wishlist-management/internal/wish"
)

func TestWish(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Wish Service Suite")
}

type mockWishRepository struct {
	wishesByID map[int64]*wish.Wish
	listByWish map[int64]int64
	listHashes map[int64]string
	nextID     int64

	createErr     error
	getErr        error
	updateErr     error
	deleteErr     error
	listErr       error
	hashLookupErr error

	createCalls int
	updateCalls int
	deleteCalls int
}

func newMockWishRepository() *mockWishRepository {
	return &mockWishRepository{
		wishesByID: map[int64]*wish.Wish{},
		listByWish: map[int64]int64{},
		listHashes: map[int64]string{},
		nextID:     1,
	}
}

func (m *mockWishRepository) add(w *wish.Wish, listID int64) *wish.Wish {
	if w.ID == 0 {
		w.ID = m.nextID
		m.nextID++
	} else if w.ID >= m.nextID {
		m.nextID = w.ID + 1
	}
	m.wishesByID[w.ID] = w
	m.listByWish[w.ID] = listID
	return w
}

func (m *mockWishRepository) CreateInList(w *wish.Wish, listID int64) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.add(w, listID)
	return nil
}

func (m *mockWishRepository) GetByID(id int64) (*wish.Wish, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.wishesByID[id], nil
}

func (m *mockWishRepository) Update(w *wish.Wish) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	m.wishesByID[w.ID] = w
	return nil
}

func (m *mockWishRepository) Delete(id int64) error {
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.wishesByID, id)
	delete(m.listByWish, id)
	return nil
}

func (m *mockWishRepository) ListForList(listID int64) ([]*wish.Wish, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*wish.Wish
	for id, lID := range m.listByWish {
		if lID == listID {
			result = append(result, m.wishesByID[id])
		}
	}
	return result, nil
}

func (m *mockWishRepository) GetListPasswordHash(listID int64) (string, error) {
	if m.hashLookupErr != nil {
		return "", m.hashLookupErr
	}
	return m.listHashes[listID], nil
}

type requireCall struct {
	actorID  int64
	action   permission.Action
	resource permission.Resource
}

type mockPermissionGate struct {
	err   error
	calls []requireCall
}

func (m *mockPermissionGate) Require(actorID int64, action permission.Action, resource permission.Resource) error {
	m.calls = append(m.calls, requireCall{actorID: actorID, action: action, resource: resource})
	return m.err
}

type mockVerifier struct{}

func (mockVerifier) Verify(hash, password string) error {
	if hash == "hashed:"+password {
		return nil
	}
	return errors.New("password mismatch")
}

var _ = Describe("WishService", func() {
	var (
		service  *wish.Service
		mockRepo *mockWishRepository
		gate     *mockPermissionGate
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	const (
		listID  = int64(10)
		ownerID = int64(1)
		actorID = int64(2)
	)

	BeforeEach(func() {
		mockRepo = newMockWishRepository()
		gate = &mockPermissionGate{}
		service = wish.NewService(mockRepo, gate, mockVerifier{}, testLogger)
	})

	strPtr := func(s string) *string { return &s }
	int64Ptr := func(n int64) *int64 { return &n }

	Describe("CreateWish", func() {
		It("creates a wish owned by whoever added it", func() {
			// Given
			dto := wish.CreateWishDTO{
				Title:      "  Red Bicycle  ",
				URL:        strPtr("https://shop.example.com/bike"),
				PriceCents: int64Ptr(25000),
			}

			// When
			created, err := service.CreateWish(listID, dto, actorID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(created.ID).To(Equal(int64(1)))
			Expect(created.OwnerID).To(Equal(actorID))
			Expect(created.Title).To(Equal("Red Bicycle"))
			Expect(mockRepo.listByWish[created.ID]).To(Equal(listID))

			Expect(gate.calls).To(HaveLen(1))
			Expect(gate.calls[0].action).To(Equal(permission.ActionEdit))
			Expect(gate.calls[0].resource.Kind()).To(Equal("list"))
		})

		It("requires a title", func() {
			// When
			created, err := service.CreateWish(listID, wish.CreateWishDTO{}, actorID)

			// Then
			Expect(created).To(BeNil())
			Expect(err.Error()).To(ContainSubstring("title is required"))
			Expect(gate.calls).To(BeEmpty())
		})

		It("rejects a negative price", func() {
			// Given
			dto := wish.CreateWishDTO{Title: "Bike", PriceCents: int64Ptr(-1)}

			// When
			created, err := service.CreateWish(listID, dto, actorID)

			// Then
			Expect(created).To(BeNil())
			Expect(err.Error()).To(ContainSubstring("price_cents must be at least 0"))
		})

		It("propagates the list denial untouched", func() {
			// Given
			gate.err = internal.NewNotFoundError("List not found", internal.ErrCodeListNotFound)

			// When
			created, err := service.CreateWish(listID, wish.CreateWishDTO{Title: "Bike"}, actorID)

			// Then
			Expect(created).To(BeNil())
			Expect(err).To(MatchError(gate.err))
			Expect(mockRepo.createCalls).To(BeZero())
		})

		It("propagates a repository failure", func() {
			// Given
			mockRepo.createErr = errors.New("connection refused")

			// When
			created, err := service.CreateWish(listID, wish.CreateWishDTO{Title: "Bike"}, actorID)

			// Then
			Expect(created).To(BeNil())
			Expect(err).To(MatchError(mockRepo.createErr))
		})
	})

	Describe("GetWish", func() {
		var seeded *wish.Wish

		BeforeEach(func() {
			seeded = mockRepo.add(&wish.Wish{OwnerID: ownerID, Title: "Bike"}, listID)
		})

		It("returns the wish when the decision core allows the view", func() {
			// When
			got, err := service.GetWish(seeded.ID, actorID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(got.ID).To(Equal(seeded.ID))
			Expect(gate.calls[0].action).To(Equal(permission.ActionView))
			Expect(gate.calls[0].resource.Kind()).To(Equal("wish"))
		})

		It("propagates the denial untouched", func() {
			// Given
			gate.err = internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeInsufficientPermissions)

			// When
			got, err := service.GetWish(seeded.ID, actorID)

			// Then
			Expect(got).To(BeNil())
			Expect(err).To(MatchError(gate.err))
		})

		It("answers not-found when the row vanished after the decision", func() {
			// When
			got, err := service.GetWish(999, actorID)

			// Then
			Expect(got).To(BeNil())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
			Expect(appErr.Message).To(Equal("Wish not found"))
		})
	})

	Describe("UpdateWish", func() {
		var seeded *wish.Wish

		BeforeEach(func() {
			seeded = mockRepo.add(&wish.Wish{
				OwnerID:     ownerID,
				Title:       "Bike",
				Description: "red one",
			}, listID)
		})

		It("applies only the provided fields", func() {
			// Given
			dto := wish.UpdateWishDTO{PriceCents: int64Ptr(19900)}

			// When
			updated, err := service.UpdateWish(seeded.ID, dto, ownerID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Title).To(Equal("Bike"))
			Expect(updated.Description).To(Equal("red one"))
			Expect(*updated.PriceCents).To(Equal(int64(19900)))
			Expect(mockRepo.updateCalls).To(Equal(1))
		})

		It("rejects clearing the title", func() {
			// Given
			dto := wish.UpdateWishDTO{Title: strPtr("   ")}

			// When
			updated, err := service.UpdateWish(seeded.ID, dto, ownerID)

			// Then
			Expect(updated).To(BeNil())
			Expect(err.Error()).To(ContainSubstring("title is required"))
		})

		It("propagates the owner-only denial untouched", func() {
			// Given
			gate.err = internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeInsufficientPermissions)

			// When
			updated, err := service.UpdateWish(seeded.ID, wish.UpdateWishDTO{Title: strPtr("Scooter")}, actorID)

			// Then
			Expect(updated).To(BeNil())
			Expect(err).To(MatchError(gate.err))
			Expect(mockRepo.updateCalls).To(BeZero())
		})
	})

	Describe("DeleteWish", func() {
		var seeded *wish.Wish

		BeforeEach(func() {
			seeded = mockRepo.add(&wish.Wish{OwnerID: ownerID, Title: "Bike"}, listID)
		})

		It("deletes once the decision core allows it", func() {
			// When
			err := service.DeleteWish(seeded.ID, ownerID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.wishesByID).To(BeEmpty())
			Expect(gate.calls[0].action).To(Equal(permission.ActionDelete))
		})

		It("propagates the denial untouched", func() {
			// Given
			gate.err = internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeInsufficientPermissions)

			// When
			err := service.DeleteWish(seeded.ID, actorID)

			// Then
			Expect(err).To(MatchError(gate.err))
			Expect(mockRepo.deleteCalls).To(BeZero())
		})
	})

	Describe("ListWishes", func() {
		BeforeEach(func() {
			mockRepo.add(&wish.Wish{OwnerID: ownerID, Title: "Bike"}, listID)
			mockRepo.add(&wish.Wish{OwnerID: ownerID, Title: "Book"}, listID)
			mockRepo.add(&wish.Wish{OwnerID: ownerID, Title: "Elsewhere"}, 99)
		})

		It("returns the wishes of the list", func() {
			// When
			wishes, err := service.ListWishes(listID, actorID, "")

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(wishes).To(HaveLen(2))
			titles := []string{wishes[0].Title, wishes[1].Title}
			Expect(titles).To(ConsistOf("Bike", "Book"))
		})

		It("feeds a matching password into the list reference", func() {
			// Given
			mockRepo.listHashes[listID] = "hashed:open-sesame"

			// When
			_, err := service.ListWishes(listID, actorID, "open-sesame")

			// Then
			Expect(err).ToNot(HaveOccurred())
			ref, ok := gate.calls[0].resource.(permission.ListRef)
			Expect(ok).To(BeTrue())
			Expect(ref.PasswordVerified).To(BeTrue())
		})

		It("leaves the reference unverified on a wrong password", func() {
			// Given
			mockRepo.listHashes[listID] = "hashed:open-sesame"

			// When
			_, err := service.ListWishes(listID, actorID, "guess")

			// Then
			Expect(err).ToNot(HaveOccurred())
			ref := gate.calls[0].resource.(permission.ListRef)
			Expect(ref.PasswordVerified).To(BeFalse())
		})

		It("propagates the denial untouched", func() {
			// Given
			gate.err = internal.NewNotFoundError("List not found", internal.ErrCodeListNotFound)

			// When
			wishes, err := service.ListWishes(listID, actorID, "")

			// Then
			Expect(wishes).To(BeNil())
			Expect(err).To(MatchError(gate.err))
		})
	})
})

var _ = Describe("CreateWishDTO", func() {
	It("accepts a minimal wish", func() {
		dto := wish.CreateWishDTO{Title: "Bike"}
		Expect(dto.Validate()).To(BeNil())
	})

	It("rejects an oversize URL", func() {
		long := "https://example.com/" + strings.Repeat("x", 2048)
		dto := wish.CreateWishDTO{Title: "Bike", URL: &long}
		err := dto.Validate()
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("url must not exceed 2048 characters"))
	})
})
