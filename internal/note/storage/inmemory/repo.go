package inmemory

import (
	"context"
	"database/sql"
	"sync"

	"github.com/owlview/reviewtree/internal/note/model"
)

type Repo struct {
	mu sync.RWMutex

	byForum map[string][]model.Note
	byID    map[string]model.Note
	// noteForum tracks which forum owns a note id so re-syncing a forum
	// evicts its stale ids.
	noteForum map[string]string
}

func New() *Repo {
	return &Repo{
		byForum:   make(map[string][]model.Note),
		byID:      make(map[string]model.Note),
		noteForum: make(map[string]string),
	}
}

func (r *Repo) SaveThread(ctx context.Context, forum string, notes []model.Note) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, old := range r.byForum[forum] {
		if old.ID == "" {
			continue
		}
		delete(r.byID, old.ID)
		delete(r.noteForum, old.ID)
	}

	stored := append([]model.Note(nil), notes...)
	r.byForum[forum] = stored

	for _, n := range stored {
		if n.ID == "" {
			continue
		}
		r.byID[n.ID] = n
		r.noteForum[n.ID] = forum
	}

	return nil
}

func (r *Repo) GetThread(ctx context.Context, forum string) ([]model.Note, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	notes, ok := r.byForum[forum]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return append([]model.Note(nil), notes...), nil
}

func (r *Repo) GetNote(ctx context.Context, id string) (model.Note, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok {
		return model.Note{}, sql.ErrNoRows
	}
	return n, nil
}

func (r *Repo) ForumExists(ctx context.Context, forum string) (bool, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byForum[forum]
	return ok, nil
}
