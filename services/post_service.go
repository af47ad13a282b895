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

	"github.com/leebenson/conform"
	"github.com/pkg/errors"
	"github.com/starfanhq/starfan/config"
	"github.com/starfanhq/starfan/db"
	apiError "github.com/starfanhq/starfan/errors"
	"github.com/starfanhq/starfan/models"
)

const postFolder = "posts"

// PostService manages a superstar's permanent posts.
type PostService interface {
	ListOwnPosts(superstarID uint, page, perPage int) ([]models.Post, models.Pagination, error)
	ListPostsBySuperstar(superstarID uint, page, perPage int) ([]models.Post, models.Pagination, error)
	ListPublicPosts(page, perPage int) ([]models.Post, models.Pagination, error)
	CreatePost(ctx context.Context, superstarID uint, request *models.CreatePostRequest, file *FileUpload) (*models.Post, error)
	GetPost(postID uint) (*models.Post, error)
	UpdatePost(superstarID, postID uint, request *models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, superstarID, postID uint) error
}

type postService struct {
	Config   *config.Config
	postRepo db.PostRepository
	store    BlobStore
	now      func() time.Time
}

func NewPostService(postRepo db.PostRepository, store BlobStore, conf *config.Config) PostService {
	return &postService{
		Config:   conf,
		postRepo: postRepo,
		store:    store,
		now:      time.Now,
	}
}

func (s *postService) ListOwnPosts(superstarID uint, page, perPage int) ([]models.Post, models.Pagination, error) {
	return s.ListPostsBySuperstar(superstarID, page, perPage)
}

func (s *postService) ListPostsBySuperstar(superstarID uint, page, perPage int) ([]models.Post, models.Pagination, error) {
	if perPage < 1 {
		perPage = DefaultConversationPageSize
	}

	total, err := s.postRepo.CountPostsBySuperstar(superstarID)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	pagination := models.NewPagination(total, page, perPage)
	posts, err := s.postRepo.ListPostsBySuperstar(superstarID, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return posts, pagination, nil
}

func (s *postService) ListPublicPosts(page, perPage int) ([]models.Post, models.Pagination, error) {
	if perPage < 1 {
		perPage = DefaultConversationPageSize
	}

	total, err := s.postRepo.CountAllPosts()
	if err != nil {
		return nil, models.Pagination{}, err
	}

	pagination := models.NewPagination(total, page, perPage)
	posts, err := s.postRepo.ListAllPosts(pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return posts, pagination, nil
}

func (s *postService) CreatePost(ctx context.Context, superstarID uint, request *models.CreatePostRequest, file *FileUpload) (*models.Post, error) {
	if err := conform.Strings(request); err != nil {
		log.Printf("conform post request: %v", err)
		return nil, apiError.ErrBadRequest
	}

	post := &models.Post{
		SuperstarID: superstarID,
		Title:       request.Title,
		Description: request.Description,
		FileType:    request.FileType,
	}

	if file != nil {
		if file.Size > MaxStoryFileSize {
			return nil, apiError.NewValidationError(map[string]string{
				"file": fmt.Sprintf("file may not be larger than %d bytes", MaxStoryFileSize),
			})
		}
		content, err := io.ReadAll(file.Body)
		if err != nil {
			log.Printf("read post upload: %v", err)
			return nil, apiError.ErrInternalServerError
		}
		key := fmt.Sprintf("%s/%d_%s", postFolder, s.now().UnixNano(), filepath.Base(file.Name))
		if err := s.store.Save(ctx, key, bytes.NewReader(content), file.ContentType); err != nil {
			log.Printf("store post file %s: %v", key, err)
			return nil, apiError.ErrInternalServerError
		}
		post.URLPath = key
	}

	if err := s.postRepo.CreatePost(post); err != nil {
		log.Printf("create post: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return post, nil
}

func (s *postService) GetPost(postID uint) (*models.Post, error) {
	post, err := s.postRepo.FindPostByID(postID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, apiError.New("Post not found", http.StatusNotFound)
		}
		log.Printf("find post %d: %v", postID, err)
		return nil, apiError.ErrInternalServerError
	}
	return post, nil
}

func (s *postService) UpdatePost(superstarID, postID uint, request *models.UpdatePostRequest) (*models.Post, error) {
	if err := conform.Strings(request); err != nil {
		log.Printf("conform post request: %v", err)
		return nil, apiError.ErrBadRequest
	}

	post, err := s.postRepo.FindOwnPost(postID, superstarID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil, apiError.New("Post not found", http.StatusNotFound)
		}
		log.Printf("find post %d: %v", postID, err)
		return nil, apiError.ErrInternalServerError
	}

	if request.Title != nil {
		post.Title = *request.Title
	}
	if request.Description != nil {
		post.Description = *request.Description
	}

	if err := s.postRepo.UpdatePost(post); err != nil {
		log.Printf("update post %d: %v", postID, err)
		return nil, apiError.ErrInternalServerError
	}
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, superstarID, postID uint) error {
	post, err := s.postRepo.FindOwnPost(postID, superstarID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return apiError.New("Post not found", http.StatusNotFound)
		}
		log.Printf("find post %d: %v", postID, err)
		return apiError.ErrInternalServerError
	}

	if err := s.postRepo.DeletePost(post.ID); err != nil {
		log.Printf("delete post %d: %v", postID, err)
		return apiError.ErrInternalServerError
	}

	if post.URLPath != "" {
		exists, err := s.store.Exists(ctx, post.URLPath)
		if err == nil && exists {
			if err := s.store.Delete(ctx, post.URLPath); err != nil {
				log.Printf("delete post blob %s: %v", post.URLPath, err)
			}
		}
	}
	return nil
}
