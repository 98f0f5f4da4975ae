package list

import (
	"strings"
	"time"

	listDatamodel "github.com/frahmantamala/wishlist-management/internal/core/datamodel/list"
)

const (
	VisibilityPrivate  = listDatamodel.VisibilityPrivate
	VisibilityPublic   = listDatamodel.VisibilityPublic
	VisibilityPassword = listDatamodel.VisibilityPassword
)

type List struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	Visibility   string    `json:"visibility"`
	PasswordHash *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (l *List) PasswordProtected() bool {
	return l.Visibility == VisibilityPassword
}

// Slugify derives a URL slug from a title: lowercased, with runs of
// anything outside a-z0-9 collapsed into single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

func ToDataModel(l *List) *listDatamodel.List {
	return &listDatamodel.List{
		ID:           l.ID,
		OwnerID:      l.OwnerID,
		Title:        l.Title,
		Slug:         l.Slug,
		Description:  l.Description,
		Visibility:   l.Visibility,
		PasswordHash: l.PasswordHash,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func FromDataModel(dm *listDatamodel.List) *List {
	return &List{
		ID:           dm.ID,
		OwnerID:      dm.OwnerID,
		Title:        dm.Title,
		Slug:         dm.Slug,
		Description:  dm.Description,
		Visibility:   dm.Visibility,
		PasswordHash: dm.PasswordHash,
		CreatedAt:    dm.CreatedAt,
		UpdatedAt:    dm.UpdatedAt,
	}
}

func FromDataModelSlice(dms []*listDatamodel.List) []*List {
	result := make([]*List, len(dms))
	for i, dm := range dms {
		result[i] = FromDataModel(dm)
	}
	return result
}
