package main

import (
	"context"
	"time"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories"
)

// seed fills an empty store with a few users, posts and topics so the API
// can be exercised locally without PostgreSQL.
func seed(ctx context.Context, store repositories.Store) error {
	return store.Transaction(ctx, func(tx repositories.Store) error {
		var users []models.User
		for _, name := range []string{"alice", "bob", "carol"} {
			u := models.User{Username: name, DisplayName: name}
			if err := tx.Users().CreateUser(ctx, &u); err != nil {
				return err
			}
			users = append(users, u)
		}

		now := time.Now().UTC()
		for i, title := range []string{"Hello, world", "Notes on Go error handling"} {
			p := models.Post{
				UserID:      users[i].ID,
				Title:       title,
				Status:      models.PostStatusPublished,
				PublishedAt: &now,
			}
			if err := tx.Posts().CreatePost(ctx, &p); err != nil {
				return err
			}
		}

		for _, t := range []models.Topic{
			{Name: "Go", Slug: "go"},
			{Name: "Databases", Slug: "databases"},
		} {
			topic := t
			if err := tx.Topics().CreateTopic(ctx, &topic); err != nil {
				return err
			}
		}
		return nil
	})
}
