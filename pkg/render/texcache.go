package render

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrEmptyTexture is returned for images with no pixels.
	ErrEmptyTexture = errors.New("texture has no pixels")
	// ErrNoTexture is returned when a named texture is not cached.
	ErrNoTexture = errors.New("texture not found")
)

// TextureCache keeps decoded textures by name and tracks the current one.
// It never evicts; entries stay until removed or cleared.
type TextureCache struct {
	textures map[string]*Texture
	current  *Texture
}

// NewTextureCache creates an empty cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{textures: make(map[string]*Texture)}
}

// Load decodes the file at path, stores it under the file's base name and
// makes it current. On failure the cache is left as it was.
func (c *TextureCache) Load(path string) (*Texture, error) {
	tex, err := LoadTexture(path)
	if err != nil {
		Logger().Warn("texture load failed", "path", path, "err", err)
		return nil, err
	}
	c.Add(tex)
	c.current = tex
	Logger().Info("texture loaded", "name", tex.Name, "width", tex.Width, "height", tex.Height)
	return tex, nil
}

// Add stores tex under tex.Name, replacing any texture with that name.
// A replaced current texture is swapped for the new one.
func (c *TextureCache) Add(tex *Texture) {
	if old, ok := c.textures[tex.Name]; ok && old == c.current {
		c.current = tex
	}
	c.textures[tex.Name] = tex
}

// Get returns the texture stored under name.
func (c *TextureCache) Get(name string) (*Texture, bool) {
	tex, ok := c.textures[name]
	return tex, ok
}

// Has reports whether name is cached.
func (c *TextureCache) Has(name string) bool {
	_, ok := c.textures[name]
	return ok
}

// SetCurrent makes the named texture current. A name that is not cached
// leaves the current texture unchanged and returns ErrNoTexture.
func (c *TextureCache) SetCurrent(name string) error {
	tex, ok := c.textures[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrNoTexture)
	}
	c.current = tex
	return nil
}

// SetCurrentTexture makes tex current whether or not it is cached. nil
// clears the current texture.
func (c *TextureCache) SetCurrentTexture(tex *Texture) {
	c.current = tex
}

// Current returns the current texture, or nil.
func (c *TextureCache) Current() *Texture {
	return c.current
}

// Remove drops the named texture, clearing the current texture if it was
// the one removed.
func (c *TextureCache) Remove(name string) {
	tex, ok := c.textures[name]
	if !ok {
		return
	}
	delete(c.textures, name)
	if tex == c.current {
		c.current = nil
	}
	Logger().Info("texture removed", "name", name)
}

// Clear drops every texture and the current selection.
func (c *TextureCache) Clear() {
	clear(c.textures)
	c.current = nil
}

// Names returns the cached names in sorted order.
func (c *TextureCache) Names() []string {
	return slices.Sorted(maps.Keys(c.textures))
}

// Len returns the number of cached textures.
func (c *TextureCache) Len() int {
	return len(c.textures)
}
