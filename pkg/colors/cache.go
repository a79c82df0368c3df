package colors

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type CategoryState struct {
	ColorID      string    `json:"color_id"`
	LastModified time.Time `json:"last_modified"`
}

// ColorCache hands out Google Calendar event colours per task category,
// recycling the least recently used colour once all eleven are taken.
type ColorCache struct {
	Path       string
	Categories map[string]*CategoryState `json:"categories"`
	dirty      bool
	now        func() time.Time
}

const (
	cacheFile = "category_colors.json"

	// UncategorizedColor is Graphite.
	UncategorizedColor = "8"
	paletteSize        = 11
)

// NewColorCache loads the cache stored in dir, if any.
func NewColorCache(dir string) (*ColorCache, error) {
	cache := &ColorCache{
		Path:       filepath.Join(dir, cacheFile),
		Categories: make(map[string]*CategoryState),
		now:        time.Now,
	}

	if _, err := os.Stat(cache.Path); err == nil {
		if err := cache.Load(); err != nil {
			return nil, err
		}
	}
	return cache, nil
}

func (c *ColorCache) Load() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(&c.Categories)
}

func (c *ColorCache) Save() error {
	if !c.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0700); err != nil {
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = json.NewEncoder(f).Encode(c.Categories)
	if err == nil {
		c.dirty = false
	}
	return err
}

// GetColorID returns the colour assigned to category, assigning one if needed.
func (c *ColorCache) GetColorID(category string) string {
	if category == "" {
		return UncategorizedColor
	}

	if state, exists := c.Categories[category]; exists {
		state.LastModified = c.now()
		c.dirty = true
		return state.ColorID
	}
	return c.assignColor(category)
}

func (c *ColorCache) assignColor(category string) string {
	used := make(map[string]bool)
	for _, s := range c.Categories {
		used[s.ColorID] = true
	}

	for i := 1; i <= paletteSize; i++ {
		id := strconv.Itoa(i)
		if id == UncategorizedColor || used[id] {
			continue
		}
		c.Categories[category] = &CategoryState{ColorID: id, LastModified: c.now()}
		c.dirty = true
		return id
	}

	// Palette is full, recycle the least recently used colour.
	var oldest string
	var oldestTime time.Time
	first := true
	for name, s := range c.Categories {
		if first || s.LastModified.Before(oldestTime) {
			oldestTime = s.LastModified
			oldest = name
			first = false
		}
	}

	recycled := c.Categories[oldest].ColorID
	delete(c.Categories, oldest)
	c.Categories[category] = &CategoryState{ColorID: recycled, LastModified: c.now()}
	c.dirty = true
	return recycled
}
