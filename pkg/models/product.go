package models

import (
	"fmt"

	"github.com/example/jewelrystore/pkg/store"
	"github.com/spf13/cast"
)

// Product is the typed record returned on the read path. Optional fields
// are pointers so an absent value serializes as JSON null.
type Product struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	InStock     bool     `json:"in_stock"`
	ImageURL    *string  `json:"image_url"`
	Material    *string  `json:"material"`
	Gemstones   []string `json:"gemstones"`
}

// CreateProduct is the inbound payload for product creation. Fields with
// a non-zero default (in_stock) are pointers so "absent" and "explicitly
// false" stay distinguishable until Normalize resolves them.
type CreateProduct struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required"`
	InStock     *bool    `json:"in_stock"`
	ImageURL    *string  `json:"image_url"`
	Material    *string  `json:"material"`
	Gemstones   []string `json:"gemstones"`
}

// Normalize resolves defaults for optional fields left absent.
func (p *CreateProduct) Normalize() {
	if p.InStock == nil {
		inStock := true
		p.InStock = &inStock
	}
}

// Document flattens the payload for persistence. Normalize must have run
// first so defaulted fields are concrete.
func (p CreateProduct) Document() store.Document {
	return store.Document{
		"title":       p.Title,
		"description": optString(p.Description),
		"price":       *p.Price,
		"category":    p.Category,
		"in_stock":    *p.InStock,
		"image_url":   optString(p.ImageURL),
		"material":    optString(p.Material),
		"gemstones":   p.Gemstones,
	}
}

// ProductFromDocument converts a loosely-typed stored document into a
// Product, defaulting missing fields: empty title, price 0, category
// "Other", in_stock true. Optional fields that are missing or of an
// unexpected type come back as null rather than failing the mapping; only
// a price that cannot be read as a number is treated as corrupt.
func ProductFromDocument(doc store.Document) (Product, error) {
	p := Product{
		Title:       docString(doc, "title", ""),
		Description: docOptString(doc, "description"),
		Category:    docString(doc, "category", "Other"),
		InStock:     true,
		ImageURL:    docOptString(doc, "image_url"),
		Material:    docOptString(doc, "material"),
	}

	if v, ok := doc["price"]; ok && v != nil {
		price, err := cast.ToFloat64E(v)
		if err != nil {
			return Product{}, fmt.Errorf("product document has invalid price %v: %w", v, err)
		}
		p.Price = price
	}

	if v, ok := doc["in_stock"]; ok && v != nil {
		if inStock, err := cast.ToBoolE(v); err == nil {
			p.InStock = inStock
		}
	}

	if v, ok := doc["gemstones"]; ok && v != nil {
		if gemstones, err := cast.ToStringSliceE(v); err == nil {
			p.Gemstones = gemstones
		}
	}

	return p, nil
}

func docString(doc store.Document, field, fallback string) string {
	if s, ok := doc[field].(string); ok {
		return s
	}
	return fallback
}

func docOptString(doc store.Document, field string) *string {
	switch v := doc[field].(type) {
	case string:
		return &v
	case *string:
		return v
	default:
		return nil
	}
}

func optString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
