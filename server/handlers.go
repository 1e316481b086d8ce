package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/example/jewelrystore/pkg/models"
	"github.com/example/jewelrystore/pkg/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	productCollection = "product"
	orderCollection   = "order"
)

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Jewelry Store Backend is running"})
}

// productQuery turns the optional category and free-text parameters into
// a store predicate: exact category match ANDed with a case-insensitive
// substring search over title and description.
func productQuery(category, q string, limit int64) store.Query {
	query := store.Query{Limit: limit}
	if category != "" {
		query.Equals = map[string]string{"category": category}
	}
	if q != "" {
		query.Search = q
		query.SearchFields = []string{"title", "description"}
	}
	return query
}

func (s *Server) listProducts(c *gin.Context) {
	category := c.Query("category")
	q := c.Query("q")

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "limit must be an integer"})
		return
	}

	if products, ok := s.cache.GetList(c.Request.Context(), category, q, limit); ok {
		c.JSON(http.StatusOK, products)
		return
	}

	if s.store == nil {
		s.serviceError(c, &ServiceError{Op: "list products", Err: errDatabaseUnavailable})
		return
	}

	docs, err := s.store.Find(c.Request.Context(), productCollection, productQuery(category, q, limit))
	if err != nil {
		s.serviceError(c, &ServiceError{Op: "list products", Err: err})
		return
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		product, err := models.ProductFromDocument(doc)
		if err != nil {
			s.serviceError(c, &ServiceError{Op: "list products", Err: err})
			return
		}
		products = append(products, product)
	}

	s.cache.SetList(c.Request.Context(), category, q, limit, products)
	c.JSON(http.StatusOK, products)
}

func (s *Server) createProduct(c *gin.Context) {
	var payload models.CreateProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := models.Validate(payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	payload.Normalize()

	if s.store == nil {
		s.serviceError(c, &ServiceError{Op: "create product", Err: errDatabaseUnavailable})
		return
	}

	id, err := s.store.Insert(c.Request.Context(), productCollection, payload.Document())
	if err != nil {
		s.serviceError(c, &ServiceError{Op: "create product", Err: err})
		return
	}

	s.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) createOrder(c *gin.Context) {
	var payload models.CreateOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := models.Validate(payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	payload.Normalize()

	if s.store == nil {
		s.serviceError(c, &ServiceError{Op: "create order", Err: errDatabaseUnavailable})
		return
	}

	id, err := s.store.Insert(c.Request.Context(), orderCollection, payload.Document())
	if err != nil {
		s.serviceError(c, &ServiceError{Op: "create order", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": "received"})
}

var errDatabaseUnavailable = errors.New("database not available")

func (s *Server) serviceError(c *gin.Context, err *ServiceError) {
	s.logger.Error("request failed",
		zap.String("request_id", c.GetString("request_id")),
		zap.String("op", err.Op),
		zap.Error(err.Err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
