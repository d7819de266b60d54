package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/five82/pantry/internal/apperr"
	"github.com/five82/pantry/internal/docstore"
)

// maxConflictAttempts bounds how often one write re-applies after losing a
// revision race.
const maxConflictAttempts = 5

// Identity resolves the installation identifier.
type Identity interface {
	Identifier(ctx context.Context) (string, error)
}

// Adapter is the favorites capability used by Controller and List.
type Adapter interface {
	Add(ctx context.Context, mealID string, meal MealSnapshot) error
	Remove(ctx context.Context, mealID string) error
	List(ctx context.Context) ([]Record, error)
	Contains(ctx context.Context, mealID string) (bool, error)
	Subscribe(ctx context.Context, onChange func([]Record)) *Subscription
}

// Ensure Repository implements Adapter at compile time.
var _ Adapter = (*Repository)(nil)

// Repository reads and writes the favorites document of this installation.
type Repository struct {
	docs     docstore.Store
	ids      Identity
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewRepository builds a Repository. logger may be nil.
func NewRepository(docs docstore.Store, ids Identity, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		docs:     docs,
		ids:      ids,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// EnsureDocument creates the document with no favorites when it is missing.
func (r *Repository) EnsureDocument(ctx context.Context) error {
	owner, err := r.ids.Identifier(ctx)
	if err != nil {
		return err
	}
	_, err = r.ensure(ctx, owner)
	return err
}

// Add stores meal as a favorite unless mealID is already present. An existing
// record keeps its original snapshot.
func (r *Repository) Add(ctx context.Context, mealID string, meal MealSnapshot) error {
	if meal.ID == "" {
		meal.ID = mealID
	}
	if err := r.validate.Var(mealID, "required"); err != nil {
		return fmt.Errorf("add favorite: invalid meal id: %w", err)
	}
	if err := r.validate.Struct(meal); err != nil {
		return fmt.Errorf("add favorite: invalid meal: %w", err)
	}

	rec := Record{MealID: mealID, Meal: meal, AddedAt: r.now().UTC()}
	return r.mutate(ctx, "add favorite", true, func(doc *Document) bool {
		return doc.add(rec)
	})
}

// Remove drops mealID. It is a no-op when the meal or the document is absent.
func (r *Repository) Remove(ctx context.Context, mealID string) error {
	return r.mutate(ctx, "remove favorite", false, func(doc *Document) bool {
		return doc.remove(mealID)
	})
}

// List returns the favorites in insertion order, or none when the document
// does not exist yet.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	owner, err := r.ids.Identifier(ctx)
	if err != nil {
		return nil, err
	}
	doc, _, exists, err := r.read(ctx, owner)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []Record{}, nil
	}
	return doc.records(), nil
}

// Contains reports whether mealID is a favorite. It creates the document on
// first use and reads it exactly once.
func (r *Repository) Contains(ctx context.Context, mealID string) (bool, error) {
	owner, err := r.ids.Identifier(ctx)
	if err != nil {
		return false, err
	}
	doc, err := r.ensure(ctx, owner)
	if err != nil {
		return false, err
	}
	return doc.index(mealID) >= 0, nil
}

// Subscribe streams the favorites to onChange: the current list first, then
// the full list after every change. A failed stream delivers an empty list
// once and ends. The returned handle must be closed.
func (r *Repository) Subscribe(ctx context.Context, onChange func([]Record)) *Subscription {
	return newSubscription(ctx, onChange, func(ctx context.Context, deliver func([]Record)) {
		if err := r.watch(ctx, deliver); err != nil && ctx.Err() == nil {
			r.logger.Warn("favorites subscription failed", "error", err)
			deliver([]Record{})
		}
	})
}

func (r *Repository) watch(ctx context.Context, deliver func([]Record)) error {
	owner, err := r.ids.Identifier(ctx)
	if err != nil {
		return err
	}
	if _, err := r.ensure(ctx, owner); err != nil {
		return err
	}
	changes, err := r.docs.Watch(ctx, DocumentID(owner))
	if err != nil {
		return apperr.Storage("watch favorites", err)
	}
	for ch := range changes {
		if ch.Err != nil {
			return apperr.Storage("watch favorites", ch.Err)
		}
		if !ch.Snapshot.Exists {
			deliver([]Record{})
			continue
		}
		var doc Document
		if err := ch.Snapshot.Decode(&doc); err != nil {
			return apperr.Storage("decode favorites", err)
		}
		deliver(doc.records())
	}
	if ctx.Err() != nil {
		return nil
	}
	return apperr.Storage("watch favorites", errFeedClosed)
}

// ensure returns the document of owner, creating it when missing.
func (r *Repository) ensure(ctx context.Context, owner string) (Document, error) {
	for attempt := 0; attempt < maxConflictAttempts; attempt++ {
		doc, _, exists, err := r.read(ctx, owner)
		if err != nil {
			return Document{}, err
		}
		if exists {
			return doc, nil
		}

		doc = newDocument(owner, r.now().UTC())
		_, err = r.docs.Put(ctx, DocumentID(owner), "", doc)
		if errors.Is(err, docstore.ErrConflict) {
			// Created concurrently; read what won.
			continue
		}
		if err != nil {
			return Document{}, apperr.Storage("create favorites", err)
		}
		r.logger.Info("created favorites document", "owner_id", owner)
		return doc, nil
	}
	return Document{}, apperr.Storage("create favorites", errTooManyConflicts)
}

var errTooManyConflicts = fmt.Errorf("gave up after %d conflicting updates", maxConflictAttempts)

// errFeedClosed reports a change stream that ended while still wanted.
var errFeedClosed = errors.New("change feed closed")

// mutate applies fn to the current document and writes it back with the
// revision it read, re-applying on conflict. create controls whether a missing
// document is created first. fn reports whether it changed anything.
func (r *Repository) mutate(ctx context.Context, op string, create bool, fn func(*Document) bool) error {
	owner, err := r.ids.Identifier(ctx)
	if err != nil {
		return err
	}
	for attempt := 0; attempt < maxConflictAttempts; attempt++ {
		doc, rev, exists, err := r.read(ctx, owner)
		if err != nil {
			return err
		}
		if !exists {
			if !create {
				return nil
			}
			doc = newDocument(owner, r.now().UTC())
		}
		if !fn(&doc) && exists {
			return nil
		}
		doc.UpdatedAt = r.now().UTC()

		_, err = r.docs.Put(ctx, DocumentID(owner), rev, doc)
		if errors.Is(err, docstore.ErrConflict) {
			r.logger.Debug("favorites revision conflict", "op", op, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return apperr.Storage(op, err)
		}
		return nil
	}
	return apperr.Storage(op, errTooManyConflicts)
}

func (r *Repository) read(ctx context.Context, owner string) (Document, string, bool, error) {
	snap, err := r.docs.Get(ctx, DocumentID(owner))
	if err != nil {
		return Document{}, "", false, apperr.Storage("read favorites", err)
	}
	if !snap.Exists {
		return Document{}, "", false, nil
	}
	var doc Document
	if err := snap.Decode(&doc); err != nil {
		return Document{}, "", false, apperr.Storage("decode favorites", err)
	}
	return doc, snap.Rev, true, nil
}
