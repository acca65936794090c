package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-news/internal/dto"
	"github.com/iliyamo/movie-news/internal/model"
	"github.com/iliyamo/movie-news/internal/pagination"
	"github.com/iliyamo/movie-news/internal/queue"
	"github.com/iliyamo/movie-news/internal/repository"
)

// Kind describes one entity type to the generic Resource orchestrator.
type Kind[E any, D any] struct {
	Name     string // movie | news | twitter
	Repo     func(repository.Store) repository.Repository[E]
	ToDTO    func(*E) D
	ToEntity func(D) *E
	Merge    func(*E, D)
	ID       func(D) *uint64

	// References verifies that every record e points at exists.  It runs
	// inside the mutating transaction, before Save.
	References func(ctx context.Context, tx repository.Store, e *E) error
	// BeforeDelete runs inside the delete transaction once the row is known
	// to exist.
	BeforeDelete func(ctx context.Context, tx repository.Store, id uint64) error
}

// Resource implements the orchestrator operations for one Kind.
type Resource[E any, D any] struct {
	kind   Kind[E, D]
	store  repository.Store
	events EventPublisher
	log    zerolog.Logger
}

func newResource[E, D any](kind Kind[E, D], store repository.Store, events EventPublisher, log zerolog.Logger) *Resource[E, D] {
	if events == nil {
		events = nopPublisher{}
	}
	return &Resource[E, D]{
		kind:   kind,
		store:  store,
		events: events,
		log:    log.With().Str("component", kind.Name+"-service").Logger(),
	}
}

func (r *Resource[E, D]) id(d D) uint64 {
	if p := r.kind.ID(d); p != nil {
		return *p
	}
	return 0
}

// Create persists a new record.  The body must not carry an identifier.
func (r *Resource[E, D]) Create(ctx context.Context, d D) (D, error) {
	var zero D
	r.log.Debug().Msg("request to create")
	if r.kind.ID(d) != nil {
		return zero, ErrIDAlreadyExists
	}
	if err := dto.Validate(d); err != nil {
		return zero, err
	}
	e := r.kind.ToEntity(d)
	var saved *E
	err := r.store.InTx(ctx, func(tx repository.Store) error {
		if err := r.references(ctx, tx, e); err != nil {
			return err
		}
		var err error
		saved, err = r.kind.Repo(tx).Save(ctx, e)
		return err
	})
	if err != nil {
		return zero, classify(err)
	}
	out := r.kind.ToDTO(saved)
	r.publish(ctx, queue.ActionCreated, r.id(out))
	return out, nil
}

// Update replaces every field of the stored record with the body,
// clearing those the body leaves nil.  pathID is the identifier the caller
// addressed; zero means none was given.
func (r *Resource[E, D]) Update(ctx context.Context, pathID uint64, d D) (D, error) {
	var zero D
	r.log.Debug().Uint64("id", pathID).Msg("request to update")
	id, err := r.checkIdentity(ctx, pathID, d, dto.Validate)
	if err != nil {
		return zero, err
	}
	e := r.kind.ToEntity(d)
	var saved *E
	err = r.store.InTx(ctx, func(tx repository.Store) error {
		if err := r.references(ctx, tx, e); err != nil {
			return err
		}
		var err error
		saved, err = r.kind.Repo(tx).Save(ctx, e)
		return err
	})
	if err != nil {
		return zero, classify(err)
	}
	r.publish(ctx, queue.ActionUpdated, id)
	return r.kind.ToDTO(saved), nil
}

// Patch merges the non-nil fields of the body onto the stored record.  A
// record deleted after the existence pre-check yields ErrNotFound and is
// never recreated.
func (r *Resource[E, D]) Patch(ctx context.Context, pathID uint64, d D) (D, error) {
	var zero D
	r.log.Debug().Uint64("id", pathID).Msg("request to partially update")
	id, err := r.checkIdentity(ctx, pathID, d, dto.ValidatePatch)
	if err != nil {
		return zero, err
	}
	var saved *E
	err = r.store.InTx(ctx, func(tx repository.Store) error {
		repo := r.kind.Repo(tx)
		e, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		r.kind.Merge(e, d)
		if err := dto.Validate(r.kind.ToDTO(e)); err != nil {
			return err
		}
		if err := r.references(ctx, tx, e); err != nil {
			return err
		}
		saved, err = repo.Save(ctx, e)
		return err
	})
	if err != nil {
		return zero, classify(err)
	}
	r.publish(ctx, queue.ActionUpdated, id)
	return r.kind.ToDTO(saved), nil
}

// checkIdentity runs the pre-checks shared by Update and Patch, in order:
// identifier present, identifier matches the path, body valid, record
// exists.
func (r *Resource[E, D]) checkIdentity(ctx context.Context, pathID uint64, d D, validate func(any) error) (uint64, error) {
	p := r.kind.ID(d)
	if p == nil {
		return 0, ErrIDNull
	}
	if pathID != 0 && *p != pathID {
		return 0, ErrIDInvalid
	}
	if err := validate(d); err != nil {
		return 0, err
	}
	ok, err := r.kind.Repo(r.store).ExistsByID(ctx, *p)
	if err != nil {
		return 0, classify(err)
	}
	if !ok {
		return 0, ErrIDNotFound
	}
	return *p, nil
}

// Get returns one record or ErrNotFound.
func (r *Resource[E, D]) Get(ctx context.Context, id uint64) (D, error) {
	var zero D
	r.log.Debug().Uint64("id", id).Msg("request to get")
	e, err := r.kind.Repo(r.store).FindByID(ctx, id)
	if err != nil {
		return zero, classify(err)
	}
	return r.kind.ToDTO(e), nil
}

// List returns one page of records.
func (r *Resource[E, D]) List(ctx context.Context, req pagination.Request, f repository.Filter) (pagination.Page[D], error) {
	r.log.Debug().Int("page", req.Page).Int("size", req.Size).Str("owner", f.OwnerLogin).Msg("request to list")
	page, err := r.kind.Repo(r.store).FindAll(ctx, req, f)
	if err != nil {
		return pagination.Page[D]{}, classify(err)
	}
	return pagination.Map(page, r.kind.ToDTO), nil
}

// Delete removes the record.  Deleting a missing identifier succeeds and
// changes nothing.
func (r *Resource[E, D]) Delete(ctx context.Context, id uint64) error {
	r.log.Debug().Uint64("id", id).Msg("request to delete")
	var existed bool
	err := r.store.InTx(ctx, func(tx repository.Store) error {
		repo := r.kind.Repo(tx)
		ok, err := repo.ExistsByID(ctx, id)
		if err != nil || !ok {
			return err
		}
		existed = true
		if r.kind.BeforeDelete != nil {
			if err := r.kind.BeforeDelete(ctx, tx, id); err != nil {
				return err
			}
		}
		return repo.DeleteByID(ctx, id)
	})
	if err != nil {
		return classify(err)
	}
	if existed {
		r.publish(ctx, queue.ActionDeleted, id)
	}
	return nil
}

func (r *Resource[E, D]) references(ctx context.Context, tx repository.Store, e *E) error {
	if r.kind.References == nil {
		return nil
	}
	return r.kind.References(ctx, tx, e)
}

// exists turns a missing referenced row into a validation failure on
// field.
func exists(ctx context.Context, check func(context.Context, uint64) (bool, error), field string, id uint64) error {
	ok, err := check(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &model.ValidationError{Field: field, Message: fmt.Sprintf("references missing record %d", id)}
	}
	return nil
}
