package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	website "github.com/jtushya/new-company-website"
	"github.com/jtushya/new-company-website/blog"
	"github.com/jtushya/new-company-website/internal/logger"
	"github.com/jtushya/new-company-website/scaffold"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := runCheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "new-post":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: website new-post <title> [tag...]")
			os.Exit(1)
		}
		if err := runNewPost(os.Args[2], os.Args[3:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("website %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	cfg := website.LoadConfig()
	logger.Init(logger.Config{Level: cfg.LogLevel, Output: "stdout", Pretty: cfg.LogPretty})
	app := website.New(cfg)
	defer app.Close()
	return app.Start()
}

// runCheck parses every post so broken frontmatter fails the deploy instead of
// silently dropping the post from listings.
func runCheck() error {
	cfg := website.LoadConfig()
	logger.Init(logger.Config{Level: cfg.LogLevel, Output: "stderr", Pretty: true})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if cfg.ContentBucket.Bucket != "" {
		app := website.New(cfg)
		if err := app.SyncContent(ctx); err != nil {
			return err
		}
	}

	store := blog.NewStore(os.DirFS(cfg.ContentDir), blog.WithLogger(logger.Get()))
	ok, errs := store.Check(ctx)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "  %v\n", err)
	}
	fmt.Printf("%d posts ok, %d failed\n", ok, len(errs))
	if len(errs) > 0 {
		return errors.New("content check failed")
	}
	return nil
}

func runNewPost(title string, tags []string) error {
	cfg := website.LoadConfig()
	slug := website.Slugify(title)
	if slug == "" {
		return fmt.Errorf("title %q has no usable characters for a slug", title)
	}
	dir := cfg.ContentDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, ext := range []string{blog.PrimaryExt, blog.FallbackExt} {
		if _, err := os.Stat(filepath.Join(dir, slug+ext)); err == nil {
			return fmt.Errorf("post %q already exists", slug+ext)
		}
	}

	outPath := filepath.Join(dir, slug+blog.PrimaryExt)
	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	author := cfg.Author
	if author == "" {
		author = cfg.Name + " Team"
	}
	if err := scaffold.WritePost(f, scaffold.Post{Title: title, Author: author, Tags: tags}); err != nil {
		return err
	}
	fmt.Printf("  created %s\n", outPath)
	fmt.Printf("\nPreview it at /blog/%s/ once the server is running.\n", slug)
	return nil
}

func printUsage() {
	fmt.Println(`website - the company marketing site and blog

Usage:
  website [command] [arguments]

Commands:
  serve                    Run the HTTP server (default)
  check                    Parse every blog post and report failures
  new-post <title> [tags]  Create a new blog post in CONTENT_DIR
  version                  Print the version
  help                     Show this help message

Examples:
  website
  website new-post "Why page speed matters" seo web
  website check`)
}
