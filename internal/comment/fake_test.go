// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/plume/internal/blog"
	"github.com/taibuivan/plume/internal/comment"
	"github.com/taibuivan/plume/internal/platform/apperr"
)

// memoryRepository is an in-memory [comment.Repository].
type memoryRepository struct {
	mu       sync.Mutex
	comments map[int64]*comment.Comment
	nextID   int64
	clock    time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		comments: make(map[int64]*comment.Comment),
		nextID:   1,
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// seed stores c as-is, assigning the next ID and a strictly increasing timestamp.
func (repo *memoryRepository) seed(c comment.Comment) *comment.Comment {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if c.ID == 0 {
		c.ID = repo.nextID
	}
	if c.ID >= repo.nextID {
		repo.nextID = c.ID + 1
	}
	if c.Status == "" {
		c.Status = comment.StatusPending
	}
	repo.clock = repo.clock.Add(time.Minute)
	c.CreatedAt = repo.clock

	stored := c
	repo.comments[c.ID] = &stored
	return clone(&stored)
}

func (repo *memoryRepository) count() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.comments)
}

func (repo *memoryRepository) status(id int64) comment.Status {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if c, ok := repo.comments[id]; ok {
		return c.Status
	}
	return ""
}

func (repo *memoryRepository) exists(id int64) bool {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	_, ok := repo.comments[id]
	return ok
}

func (repo *memoryRepository) FindComment(_ context.Context, id int64) (*comment.Comment, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	c, ok := repo.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	return clone(c), nil
}

func (repo *memoryRepository) SaveComment(_ context.Context, c *comment.Comment) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if c.ID == 0 {
		c.ID = repo.nextID
		repo.nextID++
		repo.clock = repo.clock.Add(time.Minute)
		c.CreatedAt = repo.clock
		repo.comments[c.ID] = clone(c)
		return nil
	}

	stored, ok := repo.comments[c.ID]
	if !ok {
		return apperr.NotFound("Comment")
	}
	stored.Status = c.Status
	*c = *clone(stored)
	return nil
}

func (repo *memoryRepository) DeleteComment(_ context.Context, id int64) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.comments[id]; !ok {
		return 0, apperr.NotFound("Comment")
	}

	queue := []int64{id}
	var removed int64
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for childID, c := range repo.comments {
			if c.ParentID != nil && *c.ParentID == current {
				queue = append(queue, childID)
			}
		}
		delete(repo.comments, current)
		removed++
	}
	return removed, nil
}

func (repo *memoryRepository) FindCommentsByBlog(_ context.Context, blogID int64, status *comment.Status) ([]*comment.Comment, error) {
	return repo.filter(func(c *comment.Comment) bool {
		return c.BlogID == blogID && c.ParentID == nil && (status == nil || c.Status == *status)
	}), nil
}

func (repo *memoryRepository) FindReplies(_ context.Context, parentID int64) ([]*comment.Comment, error) {
	return repo.filter(func(c *comment.Comment) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	}), nil
}

func (repo *memoryRepository) filter(keep func(*comment.Comment) bool) []*comment.Comment {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	result := make([]*comment.Comment, 0)
	for _, c := range repo.comments {
		if keep(c) {
			result = append(result, clone(c))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func clone(c *comment.Comment) *comment.Comment {
	copied := *c
	if c.ParentID != nil {
		parent := *c.ParentID
		copied.ParentID = &parent
	}
	return &copied
}

// blogSet is a [comment.BlogFinder] over a fixed set of post IDs.
type blogSet map[int64]bool

func (set blogSet) FindBlog(_ context.Context, id int64) (*blog.Blog, error) {
	if !set[id] {
		return nil, apperr.NotFound("Blog")
	}
	return &blog.Blog{ID: id, Title: "Post", Slug: "post"}, nil
}

func ptr(id int64) *int64 { return &id }
