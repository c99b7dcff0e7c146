package handlers

import (
	"net/http"
	"strings"

	"github.com/Nienta-PK/taskmanager/backend/internal/cache"
	"github.com/Nienta-PK/taskmanager/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CacheHandler struct {
	Cache       cache.Cache
	CacheWarmer *cache.CacheWarmer
}

func NewCacheHandler(cacheWarmer *cache.CacheWarmer, cacheInstance cache.Cache) *CacheHandler {
	return &CacheHandler{
		Cache:       cacheInstance,
		CacheWarmer: cacheWarmer,
	}
}

// GetCacheStats returns cache and warmer statistics
// GET /cache/stats
func (h *CacheHandler) GetCacheStats(c *gin.Context) {
	stats := gin.H{}

	if h.Cache != nil {
		stats["cache"] = h.Cache.Stats()
	}
	if h.CacheWarmer != nil {
		stats["cache_warming"] = h.CacheWarmer.GetStats()
	}

	c.JSON(http.StatusOK, stats)
}

// ClearCache drops every cached lookup table
// POST /cache/clear
func (h *CacheHandler) ClearCache(c *gin.Context) {
	if h.Cache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cache is not initialized"})
		return
	}

	if err := h.Cache.DeletePattern(services.LookupKeyPattern); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"pattern": services.LookupKeyPattern,
	})
}

// WarmCache reloads every registered warmup job synchronously
// POST /cache/warm
func (h *CacheHandler) WarmCache(c *gin.Context) {
	if h.CacheWarmer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cache warmer is not initialized"})
		return
	}

	failed := h.CacheWarmer.WarmCacheManually(c.Request.Context())
	if failed > 0 {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "some warmup jobs failed",
			"failed": failed,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Cache warmed successfully",
	})
}

// EvictCacheKey evicts a specific cache key or a trailing-wildcard pattern
// DELETE /cache/evict/:key
func (h *CacheHandler) EvictCacheKey(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		badRequest(c, "key parameter is required")
		return
	}

	if h.Cache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cache is not initialized"})
		return
	}

	if strings.HasSuffix(key, "*") {
		if err := h.Cache.DeletePattern(key); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to evict cache pattern"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "pattern": key})
		return
	}

	if err := h.Cache.Delete(key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to evict cache key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "key": key})
}
