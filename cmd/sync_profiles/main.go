package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/zaryah/zaryah-backend/internal/app"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
	"github.com/zaryah/zaryah-backend/internal/services"
)

func main() {
	var dryRun bool
	var query string
	var limit int
	flag.BoolVar(&dryRun, "dry-run", false, "print the profile documents without upserting")
	flag.StringVar(&query, "query", "", "run a semantic search after syncing")
	flag.IntVar(&limit, "limit", 5, "number of search results to print")
	flag.Parse()

	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()

	if dryRun {
		users, err := application.Repos.User.FindAll(dbctx.Context{Ctx: ctx})
		if err != nil {
			fmt.Printf("load users: %v\n", err)
			os.Exit(1)
		}
		for _, u := range users {
			fmt.Printf("[dry-run] %s\n%s\n\n", u.ID.String(), services.ProfileText(u))
		}
		fmt.Printf("done; profiles=%d\n", len(users))
		return
	}

	n, err := application.Services.ProfileIndex.SyncAll(ctx)
	if err != nil {
		fmt.Printf("sync failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("done; synced=%d\n", n)

	if q := strings.TrimSpace(query); q != "" {
		hits, err := application.Services.ProfileIndex.Search(ctx, q, limit)
		if err != nil {
			fmt.Printf("search failed: %v\n", err)
			os.Exit(1)
		}
		for _, h := range hits {
			fmt.Printf("%.3f  %s\n", h.RelevanceScore, h.DisplayName())
		}
	}
}
