package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/owlview/reviewtree/internal/note/cache"
	"github.com/owlview/reviewtree/internal/note/render"
	"github.com/owlview/reviewtree/internal/note/storage"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoClient     = errors.New("no notes client configured")
)

const DefaultTitle = "OpenReview Comments"

const renderTTL = 10 * time.Minute

type noteService struct {
	repo   storage.Repository
	cache  cache.Cache
	client NotesClient
}

func New(repo storage.Repository, c cache.Cache, client NotesClient) NoteService {
	if c == nil {
		c = cache.Noop{}
	}
	return &noteService{repo: repo, cache: c, client: client}
}

func (s *noteService) SyncThread(ctx context.Context, forum string) (int, error) {
	if strings.TrimSpace(forum) == "" {
		return 0, ErrInvalidInput
	}
	if s.client == nil {
		return 0, ErrNoClient
	}

	notes, err := s.client.ListNotes(ctx, forum)
	if err != nil {
		return 0, err
	}
	if err := s.repo.SaveThread(ctx, forum, notes); err != nil {
		return 0, err
	}

	if err := s.cache.Delete(ctx, renderKey(forum)); err != nil {
		zlog.Logger.Warn().Err(err).Str("forum", forum).Msg("drop cached render")
	}

	zlog.Logger.Info().Str("forum", forum).Int("notes", len(notes)).Msg("thread synced")
	return len(notes), nil
}

func (s *noteService) ThreadMarkdown(ctx context.Context, forum, title string) (string, error) {
	if strings.TrimSpace(forum) == "" {
		return "", ErrInvalidInput
	}
	if title == "" {
		title = DefaultTitle
	}

	// Only the default-title document is cached; it is the one the sync
	// invalidation key covers. Custom titles render fresh.
	cacheable := title == DefaultTitle
	key := renderKey(forum)
	if cacheable {
		if doc, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			return doc, nil
		}
	}

	notes, err := s.repo.GetThread(ctx, forum)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	doc, err := render.RenderThread(notes, title)
	if err != nil {
		// A cycle truncates descent but the document is still complete
		// for every reachable note; serve it and flag the data problem.
		zlog.Logger.Warn().Err(err).Str("forum", forum).Msg("render thread")
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, doc, renderTTL); err != nil {
			zlog.Logger.Warn().Err(err).Str("forum", forum).Msg("cache rendered thread")
		}
	}

	return doc, nil
}

func (s *noteService) NoteFile(ctx context.Context, id string) (FileUnit, error) {
	if strings.TrimSpace(id) == "" {
		return FileUnit{}, ErrInvalidInput
	}

	note, err := s.repo.GetNote(ctx, id)
	if err == sql.ErrNoRows {
		return FileUnit{}, ErrNotFound
	}
	if err != nil {
		return FileUnit{}, err
	}

	doc, filename := render.RenderNoteFile(note)
	return FileUnit{Filename: filename, Content: doc}, nil
}

func (s *noteService) ThreadFiles(ctx context.Context, forum string) ([]FileUnit, error) {
	if strings.TrimSpace(forum) == "" {
		return nil, ErrInvalidInput
	}

	notes, err := s.repo.GetThread(ctx, forum)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	units := make([]FileUnit, 0, len(notes))
	for _, n := range notes {
		doc, filename := render.RenderNoteFile(n)
		units = append(units, FileUnit{Filename: filename, Content: doc})
	}
	return units, nil
}

func renderKey(forum string) string {
	return "render:" + forum
}
