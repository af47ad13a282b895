package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/starfanhq/starfan/config"
	"github.com/starfanhq/starfan/db"
	apiError "github.com/starfanhq/starfan/errors"
	"github.com/starfanhq/starfan/models"
)

const (
	MaxStoryFileSize = 10 << 20 // 10 MB

	storyFolder      = "stories"
	storyThumbFolder = "stories/thumbs"
)

// StoryService manages ephemeral superstar stories. "Active" is a 24h window
// query predicate; expired rows just stop showing up.
type StoryService interface {
	ListOwnStories(superstarID uint, page, perPage int) ([]models.Story, models.Pagination, error)
	ListPublicStories(page, perPage int) ([]models.Story, models.Pagination, error)
	CreateStory(ctx context.Context, superstarID uint, fileType string, file *FileUpload) (*models.Story, error)
	GetStory(storyID uint) (*models.Story, error)
	DeleteStory(ctx context.Context, superstarID, storyID uint) error
	GetStoryFile(ctx context.Context, filename string) ([]byte, string, error)
}

type storyService struct {
	Config    *config.Config
	storyRepo db.StoryRepository
	store     BlobStore
	now       func() time.Time
}

func NewStoryService(storyRepo db.StoryRepository, store BlobStore, conf *config.Config) StoryService {
	return &storyService{
		Config:    conf,
		storyRepo: storyRepo,
		store:     store,
		now:       time.Now,
	}
}

func (s *storyService) activeSince() time.Time {
	return s.now().Add(-models.StoryActiveWindow)
}

func (s *storyService) ListOwnStories(superstarID uint, page, perPage int) ([]models.Story, models.Pagination, error) {
	if perPage < 1 {
		perPage = DefaultConversationPageSize
	}

	since := s.activeSince()
	total, err := s.storyRepo.CountActiveStories(superstarID, since)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	pagination := models.NewPagination(total, page, perPage)
	stories, err := s.storyRepo.ListActiveStories(superstarID, since, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return stories, pagination, nil
}

func (s *storyService) ListPublicStories(page, perPage int) ([]models.Story, models.Pagination, error) {
	if perPage < 1 {
		perPage = DefaultConversationPageSize
	}

	since := s.activeSince()
	total, err := s.storyRepo.CountAllActiveStories(since)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	pagination := models.NewPagination(total, page, perPage)
	stories, err := s.storyRepo.ListAllActiveStories(since, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return stories, pagination, nil
}

func (s *storyService) CreateStory(ctx context.Context, superstarID uint, fileType string, file *FileUpload) (*models.Story, error) {
	fields := make(map[string]string)
	if !models.StoryFileType(fileType).Valid() {
		fields["file_type"] = "must be one of image, video"
	}
	if file == nil {
		fields["file"] = "file is required"
	} else if file.Size > MaxStoryFileSize {
		fields["file"] = fmt.Sprintf("file may not be larger than %d bytes", MaxStoryFileSize)
	}
	if len(fields) > 0 {
		return nil, apiError.NewValidationError(fields)
	}

	content, err := io.ReadAll(file.Body)
	if err != nil {
		log.Printf("read story upload: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	now := s.now()
	name := filepath.Base(file.Name)
	key := fmt.Sprintf("%s/%d_%s", storyFolder, now.UnixNano(), name)
	if err := s.store.Save(ctx, key, bytes.NewReader(content), file.ContentType); err != nil {
		log.Printf("store story %s: %v", key, err)
		return nil, apiError.ErrInternalServerError
	}

	story := &models.Story{
		SuperstarID: superstarID,
		FileType:    models.StoryFileType(fileType),
		URLPath:     key,
		PostedAt:    now,
	}

	if story.FileType == models.StoryImage {
		thumb, err := GenerateImageThumbnail(bytes.NewReader(content))
		if err != nil {
			// Thumbnail failures don't block the story itself.
			log.Printf("thumbnail for %s: %v", key, err)
		} else {
			thumbKey := fmt.Sprintf("%s/%d_%s.jpg", storyThumbFolder, now.UnixNano(), name)
			if err := s.store.Save(ctx, thumbKey, bytes.NewReader(thumb), "image/jpeg"); err != nil {
				log.Printf("store thumbnail %s: %v", thumbKey, err)
			} else {
				story.ThumbnailURL = thumbKey
			}
		}
	}

	if err := s.storyRepo.CreateStory(story); err != nil {
		log.Printf("create story: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return story, nil
}

func (s *storyService) GetStory(storyID uint) (*models.Story, error) {
	story, err := s.storyRepo.FindStoryByID(storyID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, apiError.New("Story not found", http.StatusNotFound)
		}
		log.Printf("find story %d: %v", storyID, err)
		return nil, apiError.ErrInternalServerError
	}
	return story, nil
}

func (s *storyService) DeleteStory(ctx context.Context, superstarID, storyID uint) error {
	story, err := s.storyRepo.FindOwnStory(storyID, superstarID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return apiError.New("Story not found", http.StatusNotFound)
		}
		log.Printf("find story %d: %v", storyID, err)
		return apiError.ErrInternalServerError
	}

	if err := s.storyRepo.DeleteStory(story.ID); err != nil {
		log.Printf("delete story %d: %v", storyID, err)
		return apiError.ErrInternalServerError
	}

	for _, key := range []string{story.URLPath, story.ThumbnailURL} {
		if key == "" {
			continue
		}
		exists, err := s.store.Exists(ctx, key)
		if err != nil || !exists {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			log.Printf("delete story blob %s: %v", key, err)
		}
	}
	return nil
}

// GetStoryFile streams a stored story object and sniffs its content type.
func (s *storyService) GetStoryFile(ctx context.Context, filename string) ([]byte, string, error) {
	key := fmt.Sprintf("%s/%s", storyFolder, filepath.Base(filename))
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		log.Printf("check story file %s: %v", key, err)
		return nil, "", apiError.ErrInternalServerError
	}
	if !exists {
		return nil, "", apiError.New("File not found", http.StatusNotFound)
	}

	content, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("get story file %s: %v", key, err)
		return nil, "", apiError.ErrInternalServerError
	}

	return content, mimetype.Detect(content).String(), nil
}
