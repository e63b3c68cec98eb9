package service

import (
	"context"

	"github.com/owlview/reviewtree/internal/note/model"
)

// NotesClient is the retrieval side: anything that can list every note
// of a forum.
type NotesClient interface {
	ListNotes(ctx context.Context, forum string) ([]model.Note, error)
}

// FileUnit is one exportable document with its target filename.
type FileUnit struct {
	Filename string
	Content  string
}

type NoteService interface {
	SyncThread(ctx context.Context, forum string) (int, error)
	ThreadMarkdown(ctx context.Context, forum, title string) (string, error)
	NoteFile(ctx context.Context, id string) (FileUnit, error)
	ThreadFiles(ctx context.Context, forum string) ([]FileUnit, error)
}
