package service

import (
	"sort"
	"strings"

	"gorm.io/gorm"

	"inkwell-backend/internal/models"
	"inkwell-backend/internal/repository"
)

// In-memory repository fakes. They honor the same contracts as the gorm
// implementations: gorm.ErrRecordNotFound for missing rows and
// gorm.ErrDuplicatedKey for unique index violations.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAll() ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(id uint) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count() (int64, error) {
	return int64(len(r.users)), nil
}

type fakeCategoryRepo struct {
	categories map[uint]*models.Category
	postCounts map[uint]int64
	nextID     uint
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		categories: make(map[uint]*models.Category),
		postCounts: make(map[uint]int64),
		nextID:     1,
	}
}

func (r *fakeCategoryRepo) Create(category *models.Category) error {
	for _, c := range r.categories {
		if c.Slug == category.Slug || c.Name == category.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	category.ID = r.nextID
	r.nextID++
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Update(category *models.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(id uint) error {
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) FindByID(id uint) (*models.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) FindBySlug(slug string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) FindAll() ([]models.Category, error) {
	out := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) ExistsBySlug(slug string) (bool, error) {
	_, err := r.FindBySlug(slug)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeCategoryRepo) CountPosts(categoryID uint) (int64, error) {
	return r.postCounts[categoryID], nil
}

type fakeTagRepo struct {
	tags       map[uint]*models.Tag
	postCounts map[uint]int64
	nextID     uint
	createErrs []error
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{
		tags:       make(map[uint]*models.Tag),
		postCounts: make(map[uint]int64),
		nextID:     1,
	}
}

func (r *fakeTagRepo) Create(tag *models.Tag) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, t := range r.tags {
		if t.Name == tag.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	tag.ID = r.nextID
	r.nextID++
	cp := *tag
	r.tags[tag.ID] = &cp
	return nil
}

func (r *fakeTagRepo) Delete(id uint) error {
	delete(r.tags, id)
	return nil
}

func (r *fakeTagRepo) FindByID(id uint) (*models.Tag, error) {
	t, ok := r.tags[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTagRepo) FindByName(name string) (*models.Tag, error) {
	for _, t := range r.tags {
		if t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTagRepo) FindAll() ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(r.tags))
	for _, t := range r.tags {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTagRepo) CountPosts(tagID uint) (int64, error) {
	return r.postCounts[tagID], nil
}

type fakePostRepo struct {
	posts  map[uint]*models.Post
	nextID uint

	// createErrs is consumed one per Create call before the normal unique
	// checks, to simulate commit-time races.
	createErrs []error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uint]*models.Post), nextID: 1}
}

func (r *fakePostRepo) Create(post *models.Post) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, p := range r.posts {
		if p.Slug == post.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	post.ID = r.nextID
	r.nextID++
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) Update(post *models.Post) error {
	if _, ok := r.posts[post.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) Delete(id uint) error {
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) FindByID(id uint) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) FindBySlug(slug string) (*models.Post, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePostRepo) FindAll(filter repository.PostFilter, page, pageSize int) ([]models.Post, int64, error) {
	matched := make([]models.Post, 0)
	for _, p := range r.posts {
		if filter.Published != nil && p.Published != *filter.Published {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.TagName != nil {
			found := false
			for _, t := range p.Tags {
				if t.Name == *filter.TagName {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.Search != "" {
			term := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Title), term) &&
				!strings.Contains(strings.ToLower(p.Content), term) &&
				!strings.Contains(strings.ToLower(p.Excerpt), term) {
				continue
			}
		}
		matched = append(matched, *p)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []models.Post{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakePostRepo) FindFeatured() (*models.Post, error) {
	for _, p := range r.posts {
		if p.Featured && p.Published {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePostRepo) FindRecent(limit int) ([]models.Post, error) {
	published := true
	posts, _, err := r.FindAll(repository.PostFilter{Published: &published}, 1, limit)
	return posts, err
}

func (r *fakePostRepo) FindPopular(limit int) ([]models.Post, error) {
	return r.FindRecent(limit)
}

func (r *fakePostRepo) FindRelated(postID, categoryID uint, limit int) ([]models.Post, error) {
	out := make([]models.Post, 0)
	for _, p := range r.posts {
		if p.ID == postID || p.CategoryID != categoryID || !p.Published {
			continue
		}
		out = append(out, *p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakePostRepo) ExistsBySlug(slug string) (bool, error) {
	_, err := r.FindBySlug(slug)
	return err == nil, nil
}

func (r *fakePostRepo) IncrementViews(id uint) error {
	p, ok := r.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.ViewCount++
	return nil
}

type fakeCommentRepo struct {
	comments map[uint]*models.Comment
	nextID   uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uint]*models.Comment), nextID: 1}
}

func (r *fakeCommentRepo) Create(comment *models.Comment) error {
	comment.ID = r.nextID
	r.nextID++
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) Update(comment *models.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) Delete(id uint) error {
	for cid, c := range r.comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(r.comments, cid)
		}
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) FindByID(id uint) (*models.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) FindByPost(postID uint, approvedOnly bool) ([]models.Comment, error) {
	out := make([]models.Comment, 0)
	for _, c := range r.comments {
		if c.PostID != postID || c.ParentID != nil {
			continue
		}
		if approvedOnly && !c.Approved {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCommentRepo) FindAll() ([]models.Comment, error) {
	out := make([]models.Comment, 0, len(r.comments))
	for _, c := range r.comments {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCommentRepo) CountApprovedByPost(postID uint) (int64, error) {
	var n int64
	for _, c := range r.comments {
		if c.PostID == postID && c.Approved {
			n++
		}
	}
	return n, nil
}

type fakeSearchRepo struct {
	posts     *fakePostRepo
	calls     int
	lastLimit int
}

func (r *fakeSearchRepo) SearchPosts(query string, limit int) ([]models.Post, error) {
	r.calls++
	r.lastLimit = limit
	published := true
	posts, _, err := r.posts.FindAll(repository.PostFilter{Published: &published, Search: query}, 1, limit)
	return posts, err
}
