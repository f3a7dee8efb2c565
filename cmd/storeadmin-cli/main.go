package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"storeadmin/internal/apperr"
	"storeadmin/internal/bootstrap"
	"storeadmin/internal/config"
	"storeadmin/internal/domain/models"
	"storeadmin/internal/logger"
)

const usage = `usage: storeadmin-cli [-config path] <command> [flags]

commands:
  login            -email E [-password P]   (password falls back to STOREADMIN_PASSWORD)
  logout
  whoami
  categories       [-page N] [-perpage K] [-pages M]
  category         -id N
  items            [-page N] [-perpage K] [-category ID] [-pages M]
  create-category  -name S [-description S] -image path
`

func main() {
	configPath := flag.String("config", "./config/config.yaml", "path to config.yaml")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Env:       cfg.Env,
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Error("bootstrap failed", "err", err)
		os.Exit(1)
	}

	app.Auth.InitializeAuth(ctx)

	err = run(ctx, app, flag.Arg(0), flag.Args()[1:], os.Stdout)
	_ = app.Close()
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) && ae.Code != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", ae.Code, ae.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, app *bootstrap.App, cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	perPage := app.Config.Pagination.PerPage

	switch cmd {
	case "login":
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *password == "" {
			*password = os.Getenv("STOREADMIN_PASSWORD")
		}
		if !app.Auth.Login(ctx, models.Credentials{Email: *email, Password: *password}) {
			return errors.New(app.Auth.ErrorMessage())
		}
		return whoami(app, out)

	case "logout":
		app.Auth.Logout(ctx)
		return writeJSON(out, map[string]bool{"authenticated": false})

	case "whoami":
		return whoami(app, out)

	case "categories":
		page := fs.Int("page", 1, "page number")
		k := fs.Int("perpage", perPage, "items per page")
		pages := fs.Int("pages", 1, "walk this many pages from -page")
		if err := fs.Parse(args); err != nil {
			return err
		}
		st := app.Categories
		st.Fetch(ctx, *page, *k)
		for i := 0; ; i++ {
			if msg := st.ErrorMessage(); msg != "" {
				return errors.New(msg)
			}
			if err := writeJSON(out, st.Snapshot()); err != nil {
				return err
			}
			if i+1 >= *pages || !st.NextPage(ctx) {
				return nil
			}
		}

	case "category":
		id := fs.Int("id", 0, "category id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id <= 0 {
			return errors.New("-id must be > 0")
		}
		c, ok := app.Categories.FetchByID(ctx, *id)
		if !ok {
			return errors.New(app.Categories.ErrorMessage())
		}
		return writeJSON(out, map[string]any{
			"category":    c,
			"display_url": app.Resolver.DisplayURL(c),
		})

	case "items":
		page := fs.Int("page", 1, "page number")
		k := fs.Int("perpage", perPage, "items per page")
		categoryID := fs.Int("category", 0, "only items of this category")
		pages := fs.Int("pages", 1, "walk this many pages from -page")
		if err := fs.Parse(args); err != nil {
			return err
		}
		st := app.Items
		if *categoryID > 0 {
			st.FetchByCategory(ctx, *categoryID, *page, *k)
		} else {
			st.Fetch(ctx, *page, *k)
		}
		for i := 0; ; i++ {
			if msg := st.ErrorMessage(); msg != "" {
				return errors.New(msg)
			}
			if err := writeJSON(out, st.Snapshot()); err != nil {
				return err
			}
			if i+1 >= *pages || !st.NextPage(ctx) {
				return nil
			}
		}

	case "create-category":
		name := fs.String("name", "", "category name")
		description := fs.String("description", "", "category description")
		imagePath := fs.String("image", "", "path to the category image")
		if err := fs.Parse(args); err != nil {
			return err
		}

		in := models.CategoryCreate{Name: *name, Description: *description}
		if *imagePath != "" {
			f, err := os.Open(*imagePath)
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer f.Close()
			in.FileName = filepath.Base(*imagePath)
			in.Image = f
		}

		created, err := app.Submit.CreateCategory(ctx, in)
		if err != nil {
			return err
		}
		return writeJSON(out, created)

	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

func whoami(app *bootstrap.App, out io.Writer) error {
	res := map[string]any{"authenticated": app.Auth.IsAuthenticated()}
	if u, ok := app.Auth.User(); ok {
		res["user"] = u
	}
	return writeJSON(out, res)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
