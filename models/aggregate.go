package models

import (
	"time"

	"gorm.io/gorm"
)

// ListPostsOptions narrows the post set before counting and ordering.
type ListPostsOptions struct {
	Limit  int
	Skip   int
	Search string
}

// postRow is the scan target for the grouped aggregation query.
type postRow struct {
	ID           uint
	Content      string
	ImageURL     string
	UserID       uint
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	LikeCount    int64
	CommentCount int64
	LikedByUser  int64
}

// aggregateQuery builds the single grouped query that produces posts together
// with like_count, comment_count and the acting user's like membership. One
// query means counts and membership come from the same committed snapshot the
// post set was selected from.
func aggregateQuery(db *gorm.DB, actingUserID uint) *gorm.DB {
	return db.Model(&Post{}).
		Select(`posts.id, posts.content, posts.image_url, posts.user_id,
			posts.created_at, posts.updated_at,
			COUNT(DISTINCT likes.user_id) AS like_count,
			COUNT(DISTINCT comments.id) AS comment_count,
			MAX(CASE WHEN likes.user_id = ? THEN 1 ELSE 0 END) AS liked_by_user`, actingUserID).
		Joins("LEFT JOIN likes ON likes.post_id = posts.id").
		Joins("LEFT JOIN comments ON comments.post_id = posts.id").
		Group("posts.id")
}

// AggregatePosts lists posts as PostViews for the acting user. The search
// filter applies before counting and ordering; ordering is creation time
// descending with id descending as the tie-breaker so pagination stays
// stable. An empty result is a valid empty slice.
func AggregatePosts(db *gorm.DB, actingUserID uint, opts ListPostsOptions) ([]PostView, error) {
	q := aggregateQuery(db, actingUserID)
	if opts.Search != "" {
		q = q.Where("posts.content LIKE ?", "%"+opts.Search+"%")
	}
	q = q.Order("posts.created_at DESC, posts.id DESC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Skip > 0 {
		q = q.Offset(opts.Skip)
	}

	var rows []postRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return buildPostViews(db, rows)
}

// AggregatePost returns the PostView for a single post, or
// gorm.ErrRecordNotFound when the post does not exist.
func AggregatePost(db *gorm.DB, postID, actingUserID uint) (PostView, error) {
	var rows []postRow
	if err := aggregateQuery(db, actingUserID).
		Where("posts.id = ?", postID).
		Scan(&rows).Error; err != nil {
		return PostView{}, err
	}
	if len(rows) == 0 {
		return PostView{}, gorm.ErrRecordNotFound
	}

	views, err := buildPostViews(db, rows)
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

// buildPostViews attaches author projections to the aggregated rows. Authors
// are display data, not counted state, so one follow-up IN query is fine.
func buildPostViews(db *gorm.DB, rows []postRow) ([]PostView, error) {
	views := make([]PostView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	var userIDs []uint
	for _, r := range rows {
		userIDs = append(userIDs, r.UserID)
	}
	userIDs = uniqueUint(userIDs)

	var users []User
	if err := db.Find(&users, userIDs).Error; err != nil {
		return nil, err
	}
	authors := make(map[uint]User, len(users))
	for _, u := range users {
		authors[u.ID] = u
	}

	for _, r := range rows {
		views = append(views, PostView{
			ID:           r.ID,
			Content:      r.Content,
			ImageURL:     r.ImageURL,
			UserID:       r.UserID,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
			Author:       NewPublicUser(authors[r.UserID]),
			LikeCount:    r.LikeCount,
			CommentCount: r.CommentCount,
			LikedByUser:  r.LikedByUser > 0,
		})
	}
	return views, nil
}

func uniqueUint(slice []uint) []uint {
	seen := make(map[uint]bool, len(slice))
	list := make([]uint, 0, len(slice))
	for _, v := range slice {
		if !seen[v] {
			seen[v] = true
			list = append(list, v)
		}
	}
	return list
}
