package news

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gurram46/Artha-Agent-sub004/internal/logger"
	"github.com/gurram46/Artha-Agent-sub004/internal/pkg/paths"
)

var log = logger.New("news")

// 快讯缓存 TTL
const cacheTTL = 5 * time.Minute

// Service 市场快讯服务
type Service struct {
	fetcher Fetcher
	cache   *FileCache

	mu     sync.RWMutex
	latest []Telegraph
}

// NewService 创建快讯服务
func NewService() (*Service, error) {
	cache, err := NewFileCache(paths.EnsureCacheDir("news"), cacheTTL)
	if err != nil {
		return nil, err
	}
	return &Service{
		fetcher: NewMoneycontrolFetcher(),
		cache:   cache,
	}, nil
}

// GetTelegraphList 获取快讯列表（优先缓存）
func (s *Service) GetTelegraphList() ([]Telegraph, error) {
	source := s.fetcher.Source()

	if items, ok := s.cache.Get(source); ok {
		s.remember(items)
		return items, nil
	}

	items, err := s.fetcher.Fetch()
	if err != nil {
		log.Warn("fetch telegraph error: %v", err)
		// 网络失败时退回最近一次的内存副本
		s.mu.RLock()
		fallback := s.latest
		s.mu.RUnlock()
		if len(fallback) > 0 {
			return fallback, nil
		}
		return nil, err
	}

	_ = s.cache.Set(source, items)
	s.remember(items)
	return items, nil
}

// GetLatestTelegraph 获取最新一条快讯
func (s *Service) GetLatestTelegraph() *Telegraph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.latest) == 0 {
		return nil
	}
	item := s.latest[0]
	return &item
}

// FormatToText 将快讯格式化为模型可读文本（供分析师工具使用）
func (s *Service) FormatToText(items []Telegraph, limit int) string {
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	var sb strings.Builder
	for i := 0; i < limit; i++ {
		item := items[i]
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, item.Title))
		if item.Time != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", item.Time))
		}
		sb.WriteString("\n")
		if item.Content != "" {
			sb.WriteString("   " + item.Content + "\n")
		}
	}
	return sb.String()
}

// remember 保留内存副本
func (s *Service) remember(items []Telegraph) {
	s.mu.Lock()
	s.latest = items
	s.mu.Unlock()
}
