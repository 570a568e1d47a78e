// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gatewaytest provides an in-process fake of the food data service
// for tests.
package gatewaytest

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/fooddata/pkg/gateway"
)

// Server is a fake data service backed by an in-memory product list.
//
// # Thread Safety
//
// Safe for concurrent use. Fields set through setters are guarded.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	products []gateway.ProductDetail
	stats    gateway.AggregateStats
	down     bool
	failing  map[string]int
	requests []*http.Request
}

// NewServer starts a fake service seeded with Fixtures(). Close it when done.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		products: Fixtures(),
		stats:    FixtureStats(),
		failing:  map[string]int{},
	}

	r := gin.New()
	r.Use(s.record)
	r.GET("/", s.handleRoot)
	r.GET("/stats", s.handleStats)
	r.GET("/products", s.handleProducts)
	r.GET("/products/:id", s.handleProduct)

	s.Server = httptest.NewServer(r)
	return s
}

// SetDown makes the health endpoint answer 503.
func (s *Server) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

// FailWith makes every request to route ("/stats", "/products",
// "/products/:id") answer status. Zero clears the failure.
func (s *Server) FailWith(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failing, route)
		return
	}
	s.failing[route] = status
}

// SetStats replaces the /stats payload.
func (s *Server) SetStats(stats gateway.AggregateStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

// Requests returns the requests received so far.
func (s *Server) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, c.Request.Clone(c.Request.Context()))
	status := s.failing[c.FullPath()]
	s.mu.Unlock()

	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"detail": "injected failure"})
		return
	}
	c.Next()
}

func (s *Server) handleRoot(c *gin.Context) {
	s.mu.Lock()
	down := s.down
	s.mu.Unlock()

	if down {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "maintenance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food Data API", "version": "1.0.0"})
}

func (s *Server) handleStats(c *gin.Context) {
	s.mu.Lock()
	stats := s.stats
	s.mu.Unlock()
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleProducts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "page must be >= 1"})
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || size < 1 || size > gateway.MaxPageSize {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "page_size must be between 1 and 100"})
		return
	}
	minQuality, _ := strconv.Atoi(c.DefaultQuery("min_quality", "0"))
	search := strings.ToLower(c.Query("search"))
	brand := strings.ToLower(c.Query("brand"))
	category := strings.ToLower(c.Query("category"))
	grade := gateway.Grade(strings.ToLower(c.Query("nutriscore")))

	s.mu.Lock()
	var matched []gateway.ProductSummary
	for _, p := range s.products {
		switch {
		case search != "" && !strings.Contains(strings.ToLower(p.ProductName), search):
			continue
		case brand != "" && !strings.Contains(strings.ToLower(p.BrandName), brand):
			continue
		case category != "" && !containsFold(p.Categories, category):
			continue
		case grade != gateway.GradeNone && p.NutriscoreGrade != grade:
			continue
		case p.QualityScore < minQuality:
			continue
		}
		matched = append(matched, p.ProductSummary)
	}
	s.mu.Unlock()

	total := len(matched)
	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	items := matched[start:end]
	if items == nil {
		items = []gateway.ProductSummary{}
	}

	c.JSON(http.StatusOK, gateway.ProductPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: int(math.Ceil(float64(total) / float64(size))),
	})
}

func (s *Server) handleProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Produit non trouvé"})
}

func containsFold(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}
