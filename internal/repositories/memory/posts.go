package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories"
)

type userRepo struct{ s *Store }

func (r userRepo) CreateUser(ctx context.Context, user *models.User) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	for _, u := range r.s.st.users {
		if u.Username == user.Username {
			return repositories.ErrDuplicate
		}
		if u.FirebaseUID != nil && user.FirebaseUID != nil && *u.FirebaseUID == *user.FirebaseUID {
			return repositories.ErrDuplicate
		}
	}
	user.ID = r.s.st.newID()
	r.s.stamp(&user.CreatedAt)
	r.s.st.users[user.ID] = *user
	return nil
}

func (r userRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	u, ok := r.s.st.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetCompactByIDs(ctx context.Context, ids []uint) (map[uint]models.UserCompact, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make(map[uint]models.UserCompact, len(ids))
	for _, id := range ids {
		if u, ok := r.s.st.users[id]; ok {
			result[id] = compact(u)
		}
	}
	return result, nil
}

func (r userRepo) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, u := range r.s.st.users {
		if u.FirebaseUID != nil && *u.FirebaseUID == firebaseUID {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type postRepo struct{ s *Store }

func (r postRepo) CreatePost(ctx context.Context, post *models.Post) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	post.ID = r.s.st.newID()
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	r.s.stamp(&post.CreatedAt)
	post.UpdatedAt = post.CreatedAt
	r.s.st.posts[post.ID] = *post
	return nil
}

func (r postRepo) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, ok := r.s.st.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

// GetPostForUpdate needs no row lock here: transactions already hold the
// store mutex for their whole run.
func (r postRepo) GetPostForUpdate(ctx context.Context, id uint) (*models.Post, error) {
	return r.GetPostByID(ctx, id)
}

func (r postRepo) GetTitlesByIDs(ctx context.Context, ids []uint) (map[uint]string, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make(map[uint]string, len(ids))
	for _, id := range ids {
		if p, ok := r.s.st.posts[id]; ok {
			result[id] = p.Title
		}
	}
	return result, nil
}

func (r postRepo) SetClapsCount(ctx context.Context, postID uint, total int64) error {
	return r.update(ctx, postID, func(p *models.Post) { p.ClapsCount = total })
}

func (r postRepo) SetCommentsCount(ctx context.Context, postID uint, total int64) error {
	return r.update(ctx, postID, func(p *models.Post) { p.CommentsCount = total })
}

func (r postRepo) update(ctx context.Context, postID uint, fn func(*models.Post)) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	p, ok := r.s.st.posts[postID]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(&p)
	r.s.st.posts[postID] = p
	return nil
}

type clapRepo struct{ s *Store }

func (r clapRepo) find(postID, userID uint) (models.Clap, bool) {
	for _, c := range r.s.st.claps {
		if c.PostID == postID && c.UserID == userID {
			return c, true
		}
	}
	return models.Clap{}, false
}

func checkClapCount(count int) error {
	if count < 1 || count > models.MaxClapsPerUser {
		return fmt.Errorf("check constraint chk_claps_count violated: count %d", count)
	}
	return nil
}

func (r clapRepo) GetClapForUpdate(ctx context.Context, postID, userID uint) (*models.Clap, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, ok := r.find(postID, userID)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r clapRepo) CreateClap(ctx context.Context, clap *models.Clap) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := checkClapCount(clap.Count); err != nil {
		return err
	}
	if _, ok := r.find(clap.PostID, clap.UserID); ok {
		return repositories.ErrDuplicate
	}
	clap.ID = r.s.st.newID()
	r.s.stamp(&clap.CreatedAt)
	clap.UpdatedAt = clap.CreatedAt
	r.s.st.claps[clap.ID] = *clap
	return nil
}

func (r clapRepo) UpdateClapCount(ctx context.Context, clapID uint, count int) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := checkClapCount(count); err != nil {
		return err
	}
	c, ok := r.s.st.claps[clapID]
	if !ok {
		return repositories.ErrNotFound
	}
	c.Count = count
	c.UpdatedAt = r.s.now()
	r.s.st.claps[clapID] = c
	return nil
}

func (r clapRepo) DeleteClap(ctx context.Context, postID, userID uint) (bool, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	c, ok := r.find(postID, userID)
	if !ok {
		return false, nil
	}
	delete(r.s.st.claps, c.ID)
	return true, nil
}

func (r clapRepo) GetUserClaps(ctx context.Context, postID, userID uint) (int, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	c, _ := r.find(postID, userID)
	return c.Count, nil
}

func (r clapRepo) SumByPost(ctx context.Context, postID uint) (int64, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var total int64
	for _, c := range r.s.st.claps {
		if c.PostID == postID {
			total += int64(c.Count)
		}
	}
	return total, nil
}

func (r clapRepo) ListClappers(ctx context.Context, postID uint) ([]models.Clapper, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var claps []models.Clap
	for _, c := range r.s.st.claps {
		if c.PostID != postID {
			continue
		}
		if _, ok := r.s.st.users[c.UserID]; ok {
			claps = append(claps, c)
		}
	}
	sort.Slice(claps, func(i, j int) bool {
		if claps[i].Count != claps[j].Count {
			return claps[i].Count > claps[j].Count
		}
		return claps[i].ID < claps[j].ID
	})
	clappers := make([]models.Clapper, len(claps))
	for i, c := range claps {
		clappers[i] = models.Clapper{Count: c.Count, User: compact(r.s.st.users[c.UserID])}
	}
	return clappers, nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	comment.ID = r.s.st.newID()
	r.s.stamp(&comment.CreatedAt)
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	stored.Replies = nil
	r.s.st.comments[comment.ID] = stored
	return nil
}

func (r commentRepo) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, ok := r.s.st.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func sortOldestFirst(comments []models.Comment) {
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
}

func (r commentRepo) GetTopLevelByPostID(ctx context.Context, postID uint, page repositories.Page) ([]models.Comment, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var roots []models.Comment
	for _, c := range r.s.st.comments {
		if c.PostID == postID && c.ParentID == nil {
			roots = append(roots, c)
		}
	}
	sortOldestFirst(roots)
	return repositories.Window(roots, page), nil
}

func (r commentRepo) GetRepliesByParentIDs(ctx context.Context, parentIDs []uint) (map[uint][]models.Comment, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	wanted := make(map[uint]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}
	result := make(map[uint][]models.Comment, len(parentIDs))
	for _, c := range r.s.st.comments {
		if c.ParentID != nil && wanted[*c.ParentID] {
			result[*c.ParentID] = append(result[*c.ParentID], c)
		}
	}
	for id := range result {
		sortOldestFirst(result[id])
	}
	return result, nil
}

func (r commentRepo) UpdateContent(ctx context.Context, id, userID uint, content string) (*models.Comment, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, ok := r.s.st.comments[id]
	if !ok || c.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = r.s.now()
	r.s.st.comments[id] = c
	return &c, nil
}

func (r commentRepo) DeleteThread(ctx context.Context, id uint) (int64, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	if _, ok := r.s.st.comments[id]; !ok {
		return 0, nil
	}
	doomed := map[uint]bool{id: true}
	for grew := true; grew; {
		grew = false
		for cid, c := range r.s.st.comments {
			if c.ParentID != nil && doomed[*c.ParentID] && !doomed[cid] {
				doomed[cid] = true
				grew = true
			}
		}
	}
	for cid := range doomed {
		delete(r.s.st.comments, cid)
	}
	return int64(len(doomed)), nil
}

func (r commentRepo) CountByPostID(ctx context.Context, postID uint) (int64, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for _, c := range r.s.st.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (r commentRepo) IncrementClaps(ctx context.Context, id uint) (*models.Comment, error) {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, ok := r.s.st.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.ClapsCount++
	r.s.st.comments[id] = c
	return &c, nil
}
