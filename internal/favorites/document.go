package favorites

import (
	"slices"
	"time"

	"github.com/five82/pantry/internal/mealdb"
)

const docType = "favorites"

// MealSnapshot is the copy of a meal stored with a favorite. It is never
// re-fetched.
type MealSnapshot struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail_url"`
	Area      string `json:"area,omitempty"`
	Category  string `json:"category,omitempty"`
}

// SnapshotOf copies the fields of a recipe summary.
func SnapshotOf(s mealdb.Summary) MealSnapshot {
	return MealSnapshot{
		ID:        s.ID,
		Name:      s.Name,
		Thumbnail: s.Thumbnail,
		Area:      s.Area,
		Category:  s.Category,
	}
}

// Record is one favorite.
type Record struct {
	MealID  string       `json:"meal_id"`
	Meal    MealSnapshot `json:"meal_data"`
	AddedAt time.Time    `json:"added_at"`
}

// Document is the stored favorites of one installation.
type Document struct {
	DocType   string    `json:"doc_type"`
	OwnerID   string    `json:"owner_id"`
	Favorites []Record  `json:"favorites"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentID names the favorites document of owner.
func DocumentID(owner string) string {
	return docType + ":" + owner
}

func newDocument(owner string, now time.Time) Document {
	return Document{
		DocType:   docType,
		OwnerID:   owner,
		Favorites: []Record{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d *Document) index(mealID string) int {
	return slices.IndexFunc(d.Favorites, func(r Record) bool { return r.MealID == mealID })
}

// add appends rec unless its meal is already present.
func (d *Document) add(rec Record) bool {
	if d.index(rec.MealID) >= 0 {
		return false
	}
	d.Favorites = append(slices.Clip(d.Favorites), rec)
	return true
}

func (d *Document) remove(mealID string) bool {
	i := d.index(mealID)
	if i < 0 {
		return false
	}
	d.Favorites = slices.Delete(slices.Clone(d.Favorites), i, i+1)
	return true
}

func (d *Document) records() []Record {
	if d.Favorites == nil {
		return []Record{}
	}
	return slices.Clone(d.Favorites)
}

// without returns records minus mealID, leaving records untouched.
func without(records []Record, mealID string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.MealID != mealID {
			out = append(out, r)
		}
	}
	return out
}
