package service

import (
	"context"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

type fakePostRepo struct {
	mu       sync.Mutex
	posts    map[string]models.Post
	likes    []models.PostLike
	comments []models.PostComment
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.posts == nil {
		f.posts = map[string]models.Post{}
	}
	f.posts[post.ID] = *post
	return nil
}

func (f *fakePostRepo) FindPostByID(_ context.Context, id string) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if post, ok := f.posts[id]; ok {
		return post, nil
	}
	return models.Post{}, gorm.ErrRecordNotFound
}

func (f *fakePostRepo) ListPosts(_ context.Context, authorID string, _, _ int) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Post
	for _, post := range f.posts {
		if authorID == "" || post.AuthorID == authorID {
			out = append(out, post)
		}
	}
	return out, nil
}

func (f *fakePostRepo) CreateLike(_ context.Context, like *models.PostLike) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	like.ID = uint(len(f.likes) + 1)
	f.likes = append(f.likes, *like)
	return nil
}

func (f *fakePostRepo) CreateComment(_ context.Context, comment *models.PostComment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment.ID = uint(len(f.comments) + 1)
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakePostRepo) ListComments(_ context.Context, postID string, _ int) ([]models.PostComment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PostComment
	for _, comment := range f.comments {
		if comment.PostID == postID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func newPostFixture() (PostService, *fakePostRepo, *stubNotifier) {
	repo := &fakePostRepo{}
	notifier := &stubNotifier{}
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewPostService(repo, notifier, validate, zerolog.Nop())
	return svc, repo, notifier
}

func TestCreatePostSanitizesCaption(t *testing.T) {
	svc, repo, _ := newPostFixture()

	response, err := svc.Create(context.Background(), "user_1", dto.PostCreateRequest{
		Caption: `fit check<script>alert("x")</script>`,
	})
	require.NoError(t, err)
	require.Equal(t, "fit check", response.Caption)
	require.Equal(t, "user_1", response.AuthorID)
	require.Equal(t, "fit check", repo.posts[response.ID].Caption)
}

func TestCreatePostRejectsEmptyCaption(t *testing.T) {
	svc, _, _ := newPostFixture()

	_, err := svc.Create(context.Background(), "user_1", dto.PostCreateRequest{})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), "user_1", dto.PostCreateRequest{
		Caption: `<script>alert("x")</script>`,
	})
	require.Error(t, err)
}

func TestLikeNotifiesAuthor(t *testing.T) {
	svc, _, notifier := newPostFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user_1", dto.PostCreateRequest{Caption: "new drop"})
	require.NoError(t, err)

	require.NoError(t, svc.Like(ctx, "user_2", created.ID))

	notified := notifier.notified()
	require.Len(t, notified, 1)
	require.Equal(t, "user_1", notified[0].Recipient.ID)
	require.Equal(t, models.NotificationLike, notified[0].Type)
	require.Equal(t, created.ID, notified[0].RelatedID)
}

func TestLikeOwnPostSkipsNotification(t *testing.T) {
	svc, repo, notifier := newPostFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user_1", dto.PostCreateRequest{Caption: "new drop"})
	require.NoError(t, err)

	require.NoError(t, svc.Like(ctx, "user_1", created.ID))

	require.Len(t, repo.likes, 1)
	require.Empty(t, notifier.notified())
}

func TestLikeUnknownPostFails(t *testing.T) {
	svc, _, _ := newPostFixture()

	err := svc.Like(context.Background(), "user_2", "post_ghost")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCommentNotifiesAuthor(t *testing.T) {
	svc, _, notifier := newPostFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user_1", dto.PostCreateRequest{Caption: "new drop"})
	require.NoError(t, err)

	comment, err := svc.Comment(ctx, "user_2", created.ID, dto.PostCommentRequest{Content: "love it"})
	require.NoError(t, err)
	require.Equal(t, "love it", comment.Content)
	require.NotZero(t, comment.ID)

	notified := notifier.notified()
	require.Len(t, notified, 1)
	require.Equal(t, "user_1", notified[0].Recipient.ID)
	require.Equal(t, models.NotificationComment, notified[0].Type)
}

func TestCommentOwnPostSkipsNotification(t *testing.T) {
	svc, _, notifier := newPostFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user_1", dto.PostCreateRequest{Caption: "new drop"})
	require.NoError(t, err)

	_, err = svc.Comment(ctx, "user_1", created.ID, dto.PostCommentRequest{Content: "first"})
	require.NoError(t, err)
	require.Empty(t, notifier.notified())
}

func TestCommentSucceedsWhenNotifierFails(t *testing.T) {
	svc, repo, notifier := newPostFixture()
	notifier.fail = gorm.ErrInvalidDB
	ctx := context.Background()

	created, err := svc.Create(ctx, "user_1", dto.PostCreateRequest{Caption: "new drop"})
	require.NoError(t, err)

	_, err = svc.Comment(ctx, "user_2", created.ID, dto.PostCommentRequest{Content: "nice"})
	require.NoError(t, err)
	require.Len(t, repo.comments, 1)
}

func TestListCommentsReturnsPostComments(t *testing.T) {
	svc, _, _ := newPostFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user_1", dto.PostCreateRequest{Caption: "new drop"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, "user_1", dto.PostCreateRequest{Caption: "second drop"})
	require.NoError(t, err)

	_, err = svc.Comment(ctx, "user_2", created.ID, dto.PostCommentRequest{Content: "a"})
	require.NoError(t, err)
	_, err = svc.Comment(ctx, "user_2", other.ID, dto.PostCommentRequest{Content: "b"})
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, created.ID, 10)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "a", comments[0].Content)
}
