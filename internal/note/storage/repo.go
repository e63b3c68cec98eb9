package storage

import (
	"context"

	"github.com/owlview/reviewtree/internal/note/model"
)

type Repository interface {
	SaveThread(ctx context.Context, forum string, notes []model.Note) error
	GetThread(ctx context.Context, forum string) ([]model.Note, error)
	GetNote(ctx context.Context, id string) (model.Note, error)
	ForumExists(ctx context.Context, forum string) (bool, error)
}
