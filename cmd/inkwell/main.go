package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/okvist/inkwell"
	"github.com/okvist/inkwell/views"
)

// version is set at build time via ldflags.
var version = "dev"

const configFile = "inkwell.yml"

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := runServe(); err != nil {
			log.Fatal(err)
		}
	case "build":
		if err := runBuild(); err != nil {
			log.Fatal(err)
		}
	case "version":
		fmt.Printf("inkwell %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	cfg := loadConfig()
	cfg.AdminPassword = inkwell.MustEnv("ADMIN_PASSWORD")
	cfg.SessionSecret = inkwell.MustEnv("ADMIN_SESSION_SECRET")

	app := inkwell.New(cfg, views.New(cfg))
	defer app.Close()
	return app.Start()
}

func runBuild() error {
	cfg := loadConfig()
	app := inkwell.New(cfg, views.New(cfg))
	if err := app.Build(); err != nil {
		return err
	}
	fmt.Printf("site written to %s\n", cfg.OutputDir)
	return nil
}

// loadConfig layers the optional inkwell.yml under environment variables.
func loadConfig() inkwell.SiteConfig {
	var cfg inkwell.SiteConfig
	if _, err := os.Stat(configFile); err == nil {
		if err := inkwell.LoadConfigFile(configFile, &cfg); err != nil {
			log.Fatal(err)
		}
	}

	cfg.Name = inkwell.EnvOr("SITE_NAME", cfg.Name)
	cfg.URL = inkwell.EnvOr("SITE_URL", cfg.URL)
	cfg.Description = inkwell.EnvOr("SITE_DESCRIPTION", cfg.Description)
	cfg.Author = inkwell.EnvOr("SITE_AUTHOR", cfg.Author)
	cfg.Addr = inkwell.EnvOr("ADDR", cfg.Addr)
	cfg.ContentDir = inkwell.EnvOr("CONTENT_DIR", cfg.ContentDir)
	cfg.StaticDir = inkwell.EnvOr("STATIC_DIR", cfg.StaticDir)
	cfg.OutputDir = inkwell.EnvOr("OUTPUT_DIR", cfg.OutputDir)
	cfg.GithubUser = inkwell.EnvOr("GITHUB_USER", cfg.GithubUser)
	cfg.GithubToken = os.Getenv("GITHUB_TOKEN")

	if v := os.Getenv("ANALYTICS_ENABLED"); v != "" {
		cfg.AnalyticsEnabled = strings.EqualFold(v, "true")
	}
	cfg.AnalyticsDatabasePath = inkwell.EnvOr("ANALYTICS_DATABASE_PATH", cfg.AnalyticsDatabasePath)
	cfg.CookieSecure = strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true")
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheTTL = d
		}
	}
	if v := os.Getenv("WATCH_CONTENT"); v != "" {
		cfg.WatchContent = strings.EqualFold(v, "true")
	}
	return cfg
}

func printUsage() {
	fmt.Println(`inkwell - a personal blog engine built with Go, Echo, and templ

Usage:
  inkwell <command>

Commands:
  serve         Start the blog server (default)
  build         Export the site as static files
  version       Print the inkwell version
  help          Show this help message`)
}
