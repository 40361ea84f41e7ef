// Package main seeds a Kiasu data directory with demo accounts, public
// lists, votes and a copy so the discovery feed has something to rank.
//
// Usage:
//
//	go run ./cmd/seed --data-path ~/Kiasu/data
//	go run ./cmd/seed --data-path ./tmp --password hunter22
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raygaledev/kiasu/internal/auth"
	"github.com/raygaledev/kiasu/internal/domain"
	"github.com/raygaledev/kiasu/internal/logger"
	"github.com/raygaledev/kiasu/internal/search"
	"github.com/raygaledev/kiasu/internal/service"
	"github.com/raygaledev/kiasu/internal/store/sqlite"
)

type seedList struct {
	title       string
	description string
	category    domain.Category
	public      bool
	items       []seedItem
}

type seedItem struct {
	title string
	url   string
}

type seedUser struct {
	username string
	name     string
	lists    []seedList
}

var demo = []seedUser{
	{
		username: "ada",
		name:     "Ada",
		lists: []seedList{
			{
				title:       "Learn Go the hard way",
				description: "Concurrency, interfaces and the standard library.",
				category:    domain.CategoryProgramming,
				public:      true,
				items: []seedItem{
					{"A Tour of Go", "https://go.dev/tour/"},
					{"Effective Go", "https://go.dev/doc/effective_go"},
					{"Concurrency is not parallelism", "https://www.youtube.com/watch?v=oV9rvDllKEg"},
				},
			},
			{
				title:    "Reading queue",
				category: domain.CategoryScience,
				items:    []seedItem{{"The Feynman Lectures", "https://www.feynmanlectures.caltech.edu/"}},
			},
		},
	},
	{
		username: "grace",
		name:     "Grace",
		lists: []seedList{
			{
				title:       "Typography basics",
				description: "Type scales, rhythm and pairing.",
				category:    domain.CategoryDesign,
				public:      true,
				items: []seedItem{
					{"Practical Typography", "https://practicaltypography.com/"},
					{"Type scale", ""},
				},
			},
		},
	},
	{
		username: "linus",
		name:     "Linus",
		lists: []seedList{
			{
				title:    "Spanish in 90 days",
				category: domain.CategoryLanguage,
				public:   true,
				items: []seedItem{
					{"Core vocabulary", ""},
					{"Subjunctive drills", ""},
				},
			},
		},
	},
}

func main() {
	dataPath := flag.String("data-path", "", "Kiasu data directory (required)")
	password := flag.String("password", "password123", "Password for every demo account")
	flag.Parse()

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "--data-path is required")
		os.Exit(2)
	}

	if err := run(context.Background(), *dataPath, *password); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dataPath, password string) error {
	log := logger.New(logger.Config{Format: logger.FormatPretty, Environment: "development"})

	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	index, err := search.Open(search.Options{DataPath: filepath.Join(dataPath, "search"), Logger: log.Component("search")})
	if err != nil {
		return err
	}
	defer index.Close()

	db, err := sqlite.Open(filepath.Join(dataPath, "kiasu.db"), log.Component("store"))
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetSearchIndexer(index)

	key, err := auth.LoadOrGenerateKey(dataPath)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenService(key, auth.DefaultAccessTokenDuration)
	if err != nil {
		return err
	}

	authSvc := service.NewAuthService(db, tokens, auth.NewPasswordHasher(auth.DefaultArgon2Params), log.Logger)
	lists := service.NewStudyListService(db, nil, log.Logger)
	items := service.NewStudyItemService(db, nil, log.Logger)
	votes := service.NewVoteService(db, nil, log.Logger)
	copies := service.NewCopyService(db, nil, log.Logger)

	var created []*domain.StudyList
	userIDs := make([]string, 0, len(demo))

	for _, u := range demo {
		resp, err := authSvc.SignUp(ctx, service.SignUpRequest{
			Email:       u.username + "@example.com",
			Username:    u.username,
			Password:    password,
			DisplayName: u.name,
		})
		if err != nil {
			return fmt.Errorf("sign up %s: %w", u.username, err)
		}
		userIDs = append(userIDs, resp.User.ID)
		log.Info("Created user", "username", u.username, "role", resp.User.Role)

		for _, l := range u.lists {
			req := service.CreateListRequest{Title: l.title, Category: string(l.category), IsPublic: l.public}
			if l.description != "" {
				req.Description = &l.description
			}
			list, err := lists.Create(ctx, resp.User.ID, req)
			if err != nil {
				return fmt.Errorf("create list %q: %w", l.title, err)
			}

			for _, it := range l.items {
				itemReq := service.CreateItemRequest{Title: it.title}
				if it.url != "" {
					itemReq.URL = &it.url
				}
				if _, err := items.Add(ctx, resp.User.ID, list.ID, itemReq); err != nil {
					return fmt.Errorf("add item %q: %w", it.title, err)
				}
			}

			if list.IsPublic {
				created = append(created, list)
			}
		}
	}

	// Everyone upvotes every public list they do not own.
	for _, list := range created {
		for _, voter := range userIDs {
			if voter == list.UserID {
				continue
			}
			if _, err := votes.Vote(ctx, voter, list.ID, domain.VoteUp); err != nil {
				return fmt.Errorf("vote on %q: %w", list.Title, err)
			}
		}
	}

	// The last user saves a copy of the first public list so copy counts
	// show up in the ranking.
	if len(created) > 0 && len(userIDs) > 1 {
		saver := userIDs[len(userIDs)-1]
		if created[0].UserID != saver {
			res, err := copies.Copy(ctx, saver, created[0].ID)
			if err != nil {
				return fmt.Errorf("copy %q: %w", created[0].Title, err)
			}
			log.Info("Copied list", "slug", res.Slug)
		}
	}

	log.Info("Seed complete", "users", len(userIDs), "public_lists", len(created))
	return nil
}
