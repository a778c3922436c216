package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"communityAPI/internal/jobs"
	"communityAPI/internal/logging"
	"communityAPI/internal/models"
	"communityAPI/internal/notify"
	"communityAPI/internal/staging"
)

const (
	postIDKey         = "post:id"
	postTempKey       = "post:temp"
	postPendingMatch  = "post:pending:*"
	postPayloadField  = "json"
	postPendingPrefix = "post:pending:"
	postProcessingFmt = "post:processing:%d"

	DefaultPromoteAfter  = 15 * time.Minute
	DefaultSweepInterval = time.Minute
	DefaultScanCount     = 300
)

var pendingPostKey = regexp.MustCompile(`^post:pending:(\d+)$`)

func pendingKey(id int64) string {
	return postPendingPrefix + strconv.FormatInt(id, 10)
}

func processingKey(id int64) string {
	return fmt.Sprintf(postProcessingFmt, id)
}

// PostWriter is the permanent store a staged post is promoted into. It must
// assign its own id.
type PostWriter interface {
	Create(ctx context.Context, post *models.Post) error
}

type PendingPostService interface {
	Stage(ctx context.Context, authorID int64, authorName, title, content string) (int64, error)
	ListPending(ctx context.Context) ([]models.PostView, error)
	Promote(ctx context.Context, id int64) error
	Sweep(ctx context.Context) (int, error)
	StartSweepJob(interval time.Duration) *jobs.Job
}

type PendingPostConfig struct {
	PromoteAfter time.Duration
	ScanCount    int64
}

type stagedPost struct {
	Post struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"post"`
	User models.UserInfo `json:"user"`
}

type pendingPostService struct {
	store     staging.Store
	lock      staging.PromotionLock
	posts     PostWriter
	clock     staging.Clock
	publisher notify.Publisher
	cfg       PendingPostConfig
}

func NewPendingPostService(
	store staging.Store,
	lock staging.PromotionLock,
	posts PostWriter,
	clock staging.Clock,
	publisher notify.Publisher,
	cfg PendingPostConfig,
) PendingPostService {
	if cfg.PromoteAfter <= 0 {
		cfg.PromoteAfter = DefaultPromoteAfter
	}
	if cfg.ScanCount <= 0 {
		cfg.ScanCount = DefaultScanCount
	}
	if clock == nil {
		clock = staging.RealClock{}
	}
	return &pendingPostService{
		store:     store,
		lock:      lock,
		posts:     posts,
		clock:     clock,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Stage records a new post for moderation. The score entry is written before
// the payload, so a crash in between leaves an orphaned score that Sweep
// clears once it ages out.
func (s *pendingPostService) Stage(ctx context.Context, authorID int64, authorName, title, content string) (int64, error) {
	if title == "" || content == "" {
		return 0, fmt.Errorf("заголовок и текст обязательны: %w", models.ErrInvalidInput)
	}

	var payload stagedPost
	payload.Post.Title = title
	payload.Post.Content = content
	payload.User = models.UserInfo{ID: authorID, Name: authorName}

	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("ошибка сериализации поста: %w", err)
	}

	id, err := s.store.Incr(ctx, postIDKey)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения ID поста: %w", err)
	}

	member := strconv.FormatInt(id, 10)
	stagedAt := float64(s.clock.Now().UnixMilli())
	if err := s.store.ZAdd(ctx, postTempKey, stagedAt, member); err != nil {
		return 0, fmt.Errorf("ошибка постановки поста в очередь: %w", err)
	}
	if err := s.store.HSet(ctx, pendingKey(id), postPayloadField, string(raw)); err != nil {
		return 0, fmt.Errorf("ошибка сохранения поста: %w", err)
	}

	s.notify(ctx, notify.TopicPendingPostCreated, notify.Event{
		Title: "새 게시글 승인 요청",
		Body:  fmt.Sprintf("%s: %s", authorName, title),
	})

	return id, nil
}

func (s *pendingPostService) notify(ctx context.Context, topic string, event notify.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		logging.ExtractLogger(ctx).Warn().Err(err).Str("topic", topic).Msg("failed to publish notification")
	}
}

// ListPending returns every staged post that still has both a score and a
// payload. Order follows the keyspace scan.
func (s *pendingPostService) ListPending(ctx context.Context) ([]models.PostView, error) {
	keys, err := s.store.Scan(ctx, postPendingMatch, s.cfg.ScanCount)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения постов на модерации: %w", err)
	}

	result := []models.PostView{}
	for _, key := range keys {
		m := pendingPostKey.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}

		score, ok, err := s.store.ZScore(ctx, postTempKey, m[1])
		if err != nil {
			return nil, err
		}
		if !ok {
			// promoted or removed since the scan
			continue
		}

		raw, ok, err := s.store.HGet(ctx, key, postPayloadField)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		var payload stagedPost
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			logging.ExtractLogger(ctx).Error().Err(err).Int64("id", id).Msg("skipping unreadable staged post")
			continue
		}

		user := payload.User
		result = append(result, models.PostView{
			ID:       id,
			Title:    payload.Post.Title,
			Content:  payload.Post.Content,
			CreateAt: models.ToKST(time.UnixMilli(int64(score))),
			User:     &user,
		})
	}

	return result, nil
}

// Promote moves one staged post into the permanent store on request.
func (s *pendingPostService) Promote(ctx context.Context, id int64) error {
	_, ok, err := s.store.HGet(ctx, pendingKey(id), postPayloadField)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("пост %d на модерации: %w", id, models.ErrNotFound)
	}

	acquired, err := s.lock.TryAcquire(ctx, processingKey(id))
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("пост %d: %w", id, models.ErrAlreadyProcessing)
	}
	if err := s.lock.SetExpiry(ctx, processingKey(id)); err != nil {
		s.release(ctx, id)
		return err
	}

	promoted, err := s.upload(ctx, id)
	if err != nil {
		return err
	}
	if !promoted {
		// someone else finished it between our read and the lock
		return fmt.Errorf("пост %d на модерации: %w", id, models.ErrNotFound)
	}
	return nil
}

// Sweep promotes every staged post older than PromoteAfter. Posts whose lock
// is held elsewhere are skipped.
func (s *pendingPostService) Sweep(ctx context.Context) (int, error) {
	cutoff := s.clock.Now().Add(-s.cfg.PromoteAfter).UnixMilli()

	members, err := s.store.ZRangeByScore(ctx, postTempKey, 0, float64(cutoff))
	if err != nil {
		return 0, fmt.Errorf("ошибка выборки постов для публикации: %w", err)
	}

	logger := logging.ExtractLogger(ctx)
	promoted := 0
	var errs []error

	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			logger.Warn().Str("member", member).Msg("ignoring malformed staged id")
			continue
		}

		acquired, err := s.lock.TryAcquire(ctx, processingKey(id))
		if err != nil {
			logger.Error().Err(err).Int64("id", id).Msg("sweep: lock failed")
			errs = append(errs, err)
			continue
		}
		if !acquired {
			continue
		}
		if err := s.lock.SetExpiry(ctx, processingKey(id)); err != nil {
			logger.Error().Err(err).Int64("id", id).Msg("sweep: set expiry failed")
			s.release(ctx, id)
			errs = append(errs, err)
			continue
		}

		ok, err := s.upload(ctx, id)
		if err != nil {
			logger.Error().Err(err).Int64("id", id).Msg("sweep: promotion failed")
			errs = append(errs, err)
			continue
		}
		if ok {
			promoted++
		}
	}

	return promoted, errors.Join(errs...)
}

// upload must only be called while holding the lock for id. It reports
// whether a permanent row was written.
func (s *pendingPostService) upload(ctx context.Context, id int64) (bool, error) {
	member := strconv.FormatInt(id, 10)

	raw, ok, err := s.store.HGet(ctx, pendingKey(id), postPayloadField)
	if err != nil {
		s.release(ctx, id)
		return false, err
	}
	if !ok {
		// already promoted, or an orphaned score left by an interrupted Stage
		err := s.store.Multi(ctx, func(b staging.Batch) {
			b.ZRem(postTempKey, member)
			b.Del(processingKey(id))
		})
		return false, err
	}

	var payload stagedPost
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		s.release(ctx, id)
		return false, fmt.Errorf("ошибка разбора поста %d: %w", id, err)
	}

	post := &models.Post{
		Title:   payload.Post.Title,
		Content: payload.Post.Content,
		UserID:  payload.User.ID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.release(ctx, id)
		return false, fmt.Errorf("ошибка публикации поста %d: %w", id, err)
	}

	err = s.store.Multi(ctx, func(b staging.Batch) {
		b.ZRem(postTempKey, member)
		b.HDel(pendingKey(id), postPayloadField)
		b.Del(processingKey(id))
	})
	if err != nil {
		return true, fmt.Errorf("пост %d опубликован как %d, но не удален из очереди: %w", id, post.ID, err)
	}

	logging.ExtractLogger(ctx).Info().Int64("staged", id).Int64("post", post.ID).Msg("promoted pending post")
	return true, nil
}

func (s *pendingPostService) release(ctx context.Context, id int64) {
	if err := s.lock.Release(ctx, processingKey(id)); err != nil {
		logging.ExtractLogger(ctx).Warn().Err(err).Int64("id", id).Msg("failed to release promotion lock")
	}
}

// StartSweepJob runs Sweep every interval until the job is cancelled.
func (s *pendingPostService) StartSweepJob(interval time.Duration) *jobs.Job {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	job := jobs.New("pending post sweep")
	go func() {
		defer job.Finish()
		defer logging.LogPanics(&job.Logger)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-job.Canceled():
				job.Logger.Info().Msg("sweep stopped")
				return
			case <-ticker.C:
				promoted, err := s.Sweep(job.Ctx)
				if err != nil {
					job.Logger.Error().Err(err).Int("promoted", promoted).Msg("sweep finished with errors")
					continue
				}
				if promoted > 0 {
					job.Logger.Info().Int("promoted", promoted).Msg("sweep promoted pending posts")
				}
			}
		}
	}()

	return job
}
