package list_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/wishlist-management/internal/auth"
	"github.com/frahmantamala/wishlist-management/internal/core/events"
	"github.com/frahmantamala/wishlist-management/internal/list"
	listPostgres "github.com/frahmantamala/wishlist-management/internal/list/postgres"
	"github.com/frahmantamala/wishlist-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/wishlist-management/internal/permission/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLite-compatible models mirroring the production tables the list
// flows touch.
type SQLiteUser struct {
	ID           int64      `gorm:"primaryKey"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	Name         string     `gorm:"column:name;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsAdmin      bool       `gorm:"column:is_admin;default:false"`
	Role         string     `gorm:"column:role;default:user"`
	SuspendedAt  *time.Time `gorm:"column:suspended_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

type SQLiteList struct {
	ID           int64     `gorm:"primaryKey"`
	OwnerID      int64     `gorm:"column:owner_id;not null"`
	Title        string    `gorm:"column:title;not null"`
	Slug         string    `gorm:"column:slug;uniqueIndex;not null"`
	Description  string    `gorm:"column:description"`
	Visibility   string    `gorm:"column:visibility;default:private"`
	PasswordHash *string   `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteList) TableName() string {
	return "lists"
}

type SQLiteListAdmin struct {
	ListID  int64     `gorm:"column:list_id;primaryKey"`
	UserID  int64     `gorm:"column:user_id;primaryKey"`
	AddedBy int64     `gorm:"column:added_by;not null"`
	AddedAt time.Time `gorm:"column:added_at;default:CURRENT_TIMESTAMP"`
}

func (SQLiteListAdmin) TableName() string {
	return "list_admins"
}

type SQLiteListGroup struct {
	ListID    int64     `gorm:"column:list_id;primaryKey"`
	GroupID   int64     `gorm:"column:group_id;primaryKey"`
	SharedBy  int64     `gorm:"column:shared_by;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SQLiteListGroup) TableName() string {
	return "list_groups"
}

type SQLiteListInvitation struct {
	ID        int64     `gorm:"primaryKey"`
	ListID    int64     `gorm:"column:list_id;not null"`
	Email     string    `gorm:"column:email;not null"`
	Token     string    `gorm:"column:token;uniqueIndex;not null"`
	InvitedBy int64     `gorm:"column:invited_by;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteListInvitation) TableName() string {
	return "list_invitations"
}

type SQLiteListWish struct {
	ListID  int64     `gorm:"column:list_id;primaryKey"`
	WishID  int64     `gorm:"column:wish_id;primaryKey"`
	AddedAt time.Time `gorm:"column:added_at;default:CURRENT_TIMESTAMP"`
}

func (SQLiteListWish) TableName() string {
	return "list_wishes"
}

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

type SQLiteGroup struct {
	ID          int64     `gorm:"primaryKey"`
	OwnerID     int64     `gorm:"column:owner_id;not null"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SQLiteGroup) TableName() string {
	return "groups"
}

type SQLiteUserGroup struct {
	UserID   int64     `gorm:"column:user_id;primaryKey"`
	GroupID  int64     `gorm:"column:group_id;primaryKey"`
	Role     string    `gorm:"column:role;default:member"`
	JoinedAt time.Time `gorm:"column:joined_at"`
}

func (SQLiteUserGroup) TableName() string {
	return "user_groups"
}

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func authedRequest(method, target string, body []byte, user *auth.User) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if user != nil {
		req = req.WithContext(auth.ContextWithUser(req.Context(), user))
	}
	return req
}

func withURLParams(req *http.Request, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var _ = Describe("List Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *list.Handler
		alice   *auth.User
		bob     *auth.User
		carol   *auth.User
	)

	getList := func(user *auth.User, id, password string) *httptest.ResponseRecorder {
		req := authedRequest(http.MethodGet, "/lists/"+id, nil, user)
		if password != "" {
			req.Header.Set(list.HeaderListPassword, password)
		}
		req = withURLParams(req, "id", id)
		w := httptest.NewRecorder()
		handler.GetList(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&SQLiteUser{}, &SQLiteList{}, &SQLiteListAdmin{},
			&SQLiteListGroup{}, &SQLiteListInvitation{}, &SQLiteListWish{},
			&SQLiteReservation{}, &SQLiteGroup{}, &SQLiteUserGroup{},
		)
		Expect(err).NotTo(HaveOccurred())

		hasher := auth.NewPasswordHasher(bcrypt.MinCost)
		permissions := permission.NewService(permissionPostgres.NewPermissionRepository(db), slogger)
		service := list.NewService(listPostgres.NewListRepository(db), permissions, hasher, events.NewEventBus(slogger), slogger)
		handler = list.NewHandler(service)

		alice = &auth.User{ID: 1, Email: "alice@mail.com", Name: "Alice"}
		bob = &auth.User{ID: 2, Email: "bob@mail.com", Name: "Bob"}
		carol = &auth.User{ID: 3, Email: "carol@mail.com", Name: "Carol"}

		for _, u := range []*auth.User{alice, bob, carol} {
			err = db.Create(&SQLiteUser{ID: u.ID, Email: u.Email, Name: u.Name, PasswordHash: "x", Role: "user"}).Error
			Expect(err).NotTo(HaveOccurred())
		}

		lockedHash, err := hasher.Hash("hunter2")
		Expect(err).NotTo(HaveOccurred())

		err = db.Create(&SQLiteList{ID: 1, OwnerID: alice.ID, Title: "Birthday", Slug: "birthday", Visibility: "private"}).Error
		Expect(err).NotTo(HaveOccurred())
		err = db.Create(&SQLiteList{ID: 2, OwnerID: alice.ID, Title: "Locked", Slug: "locked", Visibility: "password", PasswordHash: &lockedHash}).Error
		Expect(err).NotTo(HaveOccurred())

		err = db.Create(&SQLiteListAdmin{ListID: 1, UserID: carol.ID, AddedBy: alice.ID}).Error
		Expect(err).NotTo(HaveOccurred())

		err = db.Create(&SQLiteGroup{ID: 1, OwnerID: alice.ID, Name: "Family"}).Error
		Expect(err).NotTo(HaveOccurred())
		err = db.Create(&SQLiteUserGroup{UserID: bob.ID, GroupID: 1, Role: "member"}).Error
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("CreateList", func() {
		It("should create a list and derive the slug from the title", func() {
			req := authedRequest(http.MethodPost, "/lists", []byte(`{"title":"Road Trip"}`), alice)
			w := httptest.NewRecorder()

			handler.CreateList(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var created list.List
			Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
			Expect(created.ID).NotTo(BeZero())
			Expect(created.Slug).To(Equal("road-trip"))
			Expect(created.Visibility).To(Equal(list.VisibilityPrivate))
		})

		It("should reject a request without a session", func() {
			req := authedRequest(http.MethodPost, "/lists", []byte(`{"title":"Road Trip"}`), nil)
			w := httptest.NewRecorder()

			handler.CreateList(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should answer a taken slug with a conflict", func() {
			req := authedRequest(http.MethodPost, "/lists", []byte(`{"title":"Another","slug":"birthday"}`), bob)
			w := httptest.NewRecorder()

			handler.CreateList(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("GetList", func() {
		It("should return the list to its owner", func() {
			w := getList(alice, "1", "")

			Expect(w.Code).To(Equal(http.StatusOK))

			var got list.List
			Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
			Expect(got.Title).To(Equal("Birthday"))
		})

		It("should answer a stranger exactly as if the list did not exist", func() {
			hidden := getList(bob, "1", "")
			missing := getList(bob, "999", "")

			Expect(hidden.Code).To(Equal(http.StatusNotFound))
			Expect(missing.Code).To(Equal(http.StatusNotFound))
			Expect(hidden.Body.String()).To(Equal(missing.Body.String()))
		})

		It("should unlock a password list with the right header", func() {
			w := getList(bob, "2", "hunter2")

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should hide a password list behind a wrong password", func() {
			w := getList(bob, "2", "wrong")

			Expect(w.Code).To(Equal(http.StatusNotFound))

			var body errorBody
			Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
			Expect(body.Error.Message).To(Equal("List not found"))
		})
	})

	Describe("UpdateList", func() {
		It("should let a co-manager edit the title", func() {
			req := authedRequest(http.MethodPatch, "/lists/1", []byte(`{"title":"Birthday Bash"}`), carol)
			req = withURLParams(req, "id", "1")
			w := httptest.NewRecorder()

			handler.UpdateList(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var updated list.List
			Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
			Expect(updated.Title).To(Equal("Birthday Bash"))
		})
	})

	Describe("DeleteList", func() {
		It("should refuse a co-manager with the owner-only reason", func() {
			req := authedRequest(http.MethodDelete, "/lists/1", nil, carol)
			req = withURLParams(req, "id", "1")
			w := httptest.NewRecorder()

			handler.DeleteList(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))

			var body errorBody
			Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
			Expect(body.Error.Message).To(Equal("Only list owners can delete lists"))
		})

		It("should let the owner delete and then answer not found", func() {
			req := authedRequest(http.MethodDelete, "/lists/1", nil, alice)
			req = withURLParams(req, "id", "1")
			w := httptest.NewRecorder()

			handler.DeleteList(w, req)

			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(getList(alice, "1", "").Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("ListMyLists", func() {
		It("should include owned and co-managed lists", func() {
			req := authedRequest(http.MethodGet, "/lists", nil, carol)
			w := httptest.NewRecorder()

			handler.ListMyLists(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response struct {
				Lists []list.List `json:"lists"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Lists).To(HaveLen(1))
			Expect(response.Lists[0].Slug).To(Equal("birthday"))
		})
	})

	Describe("ShareWithGroup", func() {
		It("should open the list to group members for viewing only", func() {
			Expect(getList(bob, "1", "").Code).To(Equal(http.StatusNotFound))

			req := authedRequest(http.MethodPost, "/lists/1/groups/1", nil, alice)
			req = withURLParams(req, "id", "1", "groupID", "1")
			w := httptest.NewRecorder()

			handler.ShareWithGroup(w, req)
			Expect(w.Code).To(Equal(http.StatusNoContent))

			Expect(getList(bob, "1", "").Code).To(Equal(http.StatusOK))

			edit := authedRequest(http.MethodPatch, "/lists/1", []byte(`{"title":"Hijacked"}`), bob)
			edit = withURLParams(edit, "id", "1")
			ew := httptest.NewRecorder()
			handler.UpdateList(ew, edit)
			Expect(ew.Code).To(Equal(http.StatusNotFound))
		})
	})
})
