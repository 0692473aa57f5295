package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dudhkela/dudhkela_backend/config"
	"github.com/dudhkela/dudhkela_backend/models"
	"github.com/dudhkela/dudhkela_backend/utils"
)

// BlogController contains blog post logic
type BlogController struct {
	DB *mongo.Client
}

// NewBlogController creates a new blog controller
func NewBlogController(db *mongo.Client) *BlogController {
	return &BlogController{DB: db}
}

// ListBlogs returns published posts, newest first, optionally filtered by tag
func (bc *BlogController) ListBlogs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if tag := c.QueryParam("tag"); tag != "" {
		filter["tags"] = utils.SanitizeInput(tag)
	}

	collection := config.GetCollection(bc.DB, "blogs")
	opts := options.Find().SetSort(bson.D{{Key: "publishedDate", Value: -1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch blog posts",
		})
	}
	defer cursor.Close(ctx)

	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode blog posts",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Blog posts retrieved successfully",
		Data:    blogs,
	})
}

// GetBlog returns one post by ID
func (bc *BlogController) GetBlog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid blog ID",
		})
	}

	collection := config.GetCollection(bc.DB, "blogs")
	var blog models.Blog
	err = collection.FindOne(ctx, bson.M{"_id": blogID}).Decode(&blog)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Blog post not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch blog post",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Blog post retrieved successfully",
		Data:    blog,
	})
}

// CreateBlog publishes a new post. Admin only.
func (bc *BlogController) CreateBlog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var input models.BlogInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&input); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Title, author, description and at least one tag are required",
		})
	}

	tags := models.NormalizeTags(utils.SanitizeStringArray(input.Tags))
	if len(tags) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "At least one tag is required",
		})
	}

	now := time.Now()
	blog := models.Blog{
		ID:              primitive.NewObjectID(),
		Title:           utils.SanitizeInput(input.Title),
		Author:          utils.SanitizeInput(input.Author),
		ReadTime:        utils.SanitizeInput(input.ReadTime),
		Description:     utils.SanitizeInput(input.Description),
		FullDescription: utils.SanitizeInput(input.FullDescription),
		ImageURL:        input.ImageURL,
		Tags:            tags,
		PublishedDate:   now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	collection := config.GetCollection(bc.DB, "blogs")
	if _, err := collection.InsertOne(ctx, blog); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create blog post",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Blog post created successfully",
		Data:    blog,
	})
}

// UpdateBlog edits an existing post. Admin only.
func (bc *BlogController) UpdateBlog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid blog ID",
		})
	}

	var input models.BlogInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&input); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Title, author, description and at least one tag are required",
		})
	}

	tags := models.NormalizeTags(utils.SanitizeStringArray(input.Tags))
	if len(tags) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "At least one tag is required",
		})
	}

	update := bson.M{"$set": bson.M{
		"title":           utils.SanitizeInput(input.Title),
		"author":          utils.SanitizeInput(input.Author),
		"readTime":        utils.SanitizeInput(input.ReadTime),
		"description":     utils.SanitizeInput(input.Description),
		"fullDescription": utils.SanitizeInput(input.FullDescription),
		"imageUrl":        input.ImageURL,
		"tags":            tags,
		"updatedAt":       time.Now(),
	}}

	collection := config.GetCollection(bc.DB, "blogs")
	res, err := collection.UpdateOne(ctx, bson.M{"_id": blogID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update blog post",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Blog post not found",
		})
	}

	var blog models.Blog
	if err := collection.FindOne(ctx, bson.M{"_id": blogID}).Decode(&blog); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Blog post updated but failed to fetch it",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Blog post updated successfully",
		Data:    blog,
	})
}

// DeleteBlog removes a post. Admin only.
func (bc *BlogController) DeleteBlog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid blog ID",
		})
	}

	collection := config.GetCollection(bc.DB, "blogs")
	res, err := collection.DeleteOne(ctx, bson.M{"_id": blogID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete blog post",
		})
	}
	if res.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Blog post not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Blog post deleted successfully",
	})
}
