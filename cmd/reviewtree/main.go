package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/zlog"

	"github.com/owlview/reviewtree/internal/export"
	"github.com/owlview/reviewtree/internal/note/cache"
	notehttp "github.com/owlview/reviewtree/internal/note/handler/http"
	"github.com/owlview/reviewtree/internal/note/service"
	"github.com/owlview/reviewtree/internal/note/storage"
	"github.com/owlview/reviewtree/internal/note/storage/inmemory"
	"github.com/owlview/reviewtree/internal/note/storage/postgres"
	"github.com/owlview/reviewtree/internal/openreview"
)

func main() {
	_ = godotenv.Load()
	zlog.Init()

	var repo storage.Repository
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("open postgres")
		}
		if err := db.Ping(); err != nil {
			zlog.Logger.Fatal().Err(err).Msg("ping postgres")
		}
		repo = postgres.New(db)
	} else {
		repo = inmemory.New()
	}

	var c cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c = cache.NewRedis(addr)
	}

	client := openreview.NewClient(os.Getenv("OPENREVIEW_BASE_URL"), os.Getenv("OPENREVIEW_TOKEN"))
	svc := service.New(repo, c, client)

	if len(os.Args) > 1 && os.Args[1] == "export" {
		runExport(svc, os.Args[2:])
		return
	}

	h := notehttp.New(svc)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	addr := ":" + port
	zlog.Logger.Info().Str("addr", addr).Msg("listening")
	if err := http.ListenAndServe(addr, h.Routes()); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("serve")
	}
}

// runExport fetches a forum and writes one file per note plus the
// combined thread document.
func runExport(svc service.NoteService, args []string) {
	if len(args) < 1 {
		zlog.Logger.Fatal().Msg("usage: reviewtree export <forum> [dir]")
	}
	forum := args[0]

	dir := "export"
	if len(args) > 1 {
		dir = args[1]
	} else if d := os.Getenv("EXPORT_DIR"); d != "" {
		dir = d
	}

	ctx := context.Background()

	synced, err := svc.SyncThread(ctx, forum)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Str("forum", forum).Msg("sync thread")
	}

	w := export.NewWriter(dir)

	doc, err := svc.ThreadMarkdown(ctx, forum, "")
	if err != nil {
		zlog.Logger.Fatal().Err(err).Str("forum", forum).Msg("render thread")
	}
	if _, err := w.Write("_thread.md", doc); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("write thread document")
	}

	units, err := svc.ThreadFiles(ctx, forum)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Str("forum", forum).Msg("render note files")
	}
	for _, u := range units {
		if _, err := w.Write(u.Filename, u.Content); err != nil {
			zlog.Logger.Fatal().Err(err).Msg("write note file")
		}
	}

	zlog.Logger.Info().
		Str("forum", forum).
		Str("dir", dir).
		Int("notes", synced).
		Int("files", len(units)+1).
		Msg("export complete")
}
