package gallery

import (
	"fmt"
	"sync"

	"github.com/shouni/gemini-avatar-booth/pkg/domain"
)

// Store はメモリ上のギャラリーです。挿入順で保持し、表示は新しい順です。
type Store struct {
	mu      sync.RWMutex
	items   []domain.GalleryItem
	viewing string
}

// NewStore はシードアイテムを初期値としてストアを作成します。
func NewStore(seeds ...domain.GalleryItem) (*Store, error) {
	s := &Store{}
	for _, item := range seeds {
		if err := s.validate(item); err != nil {
			return nil, err
		}
		s.items = append(s.items, item)
	}
	return s, nil
}

// Append はアイテムを末尾に追加します。
// ストアがシードアイテムだけを保持している場合、それらをすべて破棄して item だけにします。
// 実アイテムが1件でも入っていれば、以後シードが追加されても破棄は発生しません。
func (s *Store) Append(item domain.GalleryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validate(item); err != nil {
		return err
	}
	if !item.IsSeed() && s.onlySeedsLocked() {
		s.items = []domain.GalleryItem{item}
		s.viewing = ""
		return nil
	}
	s.items = append(s.items, item)
	return nil
}

// Remove は id が一致するアイテムを削除します。存在しない場合は何もしません。
// 閲覧中のアイテムだった場合は閲覧状態も解除します。
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID != id {
			continue
		}
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		if s.viewing == id {
			s.viewing = ""
		}
		return true
	}
	return false
}

// List は新しい順（挿入の逆順）でアイテムを返します。
func (s *Store) List() []domain.GalleryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.GalleryItem, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
	}
	return out
}

// Get は id のアイテムを返します。
func (s *Store) Get(id string) (domain.GalleryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.GalleryItem{}, false
	}
	return s.items[i], true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// HasRealItem は撮影由来のアイテムが存在するかを返します。
func (s *Store) HasRealItem() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if !item.IsSeed() {
			return true
		}
	}
	return false
}

// View はアイテムを閲覧中にします。
func (s *Store) View(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	s.viewing = id
	return nil
}

// Viewing は閲覧中のアイテムを返します。
func (s *Store) Viewing() (domain.GalleryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.viewing == "" {
		return domain.GalleryItem{}, false
	}
	i := s.indexLocked(s.viewing)
	if i < 0 {
		return domain.GalleryItem{}, false
	}
	return s.items[i], true
}

// CloseViewer は閲覧状態を解除します。
func (s *Store) CloseViewer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewing = ""
}

func (s *Store) validate(item domain.GalleryItem) error {
	if item.ID == "" {
		return fmt.Errorf("gallery item id is required")
	}
	if item.Generated.IsZero() {
		return fmt.Errorf("gallery item %s has no generated image", item.ID)
	}
	if s.indexLocked(item.ID) >= 0 {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, item.ID)
	}
	return nil
}

// onlySeedsLocked は空でなく、すべてがシードアイテムの場合に true を返します。
func (s *Store) onlySeedsLocked() bool {
	if len(s.items) == 0 {
		return false
	}
	for _, item := range s.items {
		if !item.IsSeed() {
			return false
		}
	}
	return true
}

func (s *Store) indexLocked(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
