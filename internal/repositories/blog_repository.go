package repositories

import (
	"errors"

	"github.com/plumekit/plume-backend/internal/models"
	"gorm.io/gorm"
)

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	CreateBlog(blog *models.Blog) error
	GetBlogByID(id uint) (*models.Blog, error)
	GetAllBlogs() ([]models.Blog, error)
	GetBlogsByUserID(userID uint) ([]models.Blog, error)
	UpdateBlog(blog *models.Blog) error
	DeleteBlog(id uint) error
}

// PostgresBlogRepository implements BlogRepository for PostgreSQL
type PostgresBlogRepository struct {
	db *gorm.DB
}

// NewPostgresBlogRepository creates a new PostgresBlogRepository
func NewPostgresBlogRepository(db *gorm.DB) *PostgresBlogRepository {
	return &PostgresBlogRepository{db: db}
}

func (r *PostgresBlogRepository) CreateBlog(blog *models.Blog) error {
	return r.db.Create(blog).Error
}

func (r *PostgresBlogRepository) GetBlogByID(id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &blog, nil
}

func (r *PostgresBlogRepository) GetAllBlogs() ([]models.Blog, error) {
	var blogs []models.Blog
	if err := r.db.Order("created_at DESC").Find(&blogs).Error; err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *PostgresBlogRepository) GetBlogsByUserID(userID uint) ([]models.Blog, error) {
	var blogs []models.Blog
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&blogs).Error; err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *PostgresBlogRepository) UpdateBlog(blog *models.Blog) error {
	return r.db.Save(blog).Error
}

func (r *PostgresBlogRepository) DeleteBlog(id uint) error {
	res := r.db.Delete(&models.Blog{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
