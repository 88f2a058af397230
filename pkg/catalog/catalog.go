package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shouni/gemini-avatar-booth/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed characters.yaml
var defaultCatalog []byte

// SeedInterval はデモアイテム同士のタイムスタンプの間隔です。
const SeedInterval = time.Minute

// SeedConfig はデモ用ギャラリーアイテムの設定です。
type SeedConfig struct {
	ID           string `yaml:"id"`
	CharacterID  string `yaml:"character_id"`
	GeneratedURL string `yaml:"generated_url"`
}

type catalogFile struct {
	Characters []domain.Character `yaml:"characters"`
	Seeds      []SeedConfig       `yaml:"seeds"`
}

// Catalog は読み取り専用のキャラクター一覧です。
type Catalog struct {
	characters []domain.Character
	index      map[string]int
	categories []string
	seeds      []SeedConfig
}

// Default は埋め込みのカタログを読み込みます。
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile は YAML ファイルからカタログを読み込みます。
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("カタログファイルの読み込みに失敗しました: %w", err)
	}
	return Parse(data)
}

// Parse は YAML データを検証してカタログを構築します。
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("カタログのパースに失敗しました: %w", err)
	}

	c := &Catalog{index: make(map[string]int, len(f.Characters))}
	seenCategory := make(map[string]bool)
	for _, ch := range f.Characters {
		if ch.ID == "" || ch.Name == "" {
			return nil, fmt.Errorf("character id and name are required: %+v", ch)
		}
		if strings.TrimSpace(ch.StylePrompt) == "" {
			return nil, fmt.Errorf("character %s: style_prompt is required", ch.ID)
		}
		if _, dup := c.index[ch.ID]; dup {
			return nil, fmt.Errorf("duplicate character id: %s", ch.ID)
		}
		ch.StylePrompt = strings.TrimSpace(ch.StylePrompt)
		c.index[ch.ID] = len(c.characters)
		c.characters = append(c.characters, ch)
		if !seenCategory[ch.Category] {
			seenCategory[ch.Category] = true
			c.categories = append(c.categories, ch.Category)
		}
	}

	seenSeed := make(map[string]bool, len(f.Seeds))
	for _, s := range f.Seeds {
		if s.ID == "" || s.GeneratedURL == "" {
			return nil, fmt.Errorf("seed id and generated_url are required: %+v", s)
		}
		if seenSeed[s.ID] {
			return nil, fmt.Errorf("duplicate seed id: %s", s.ID)
		}
		if _, ok := c.index[s.CharacterID]; !ok {
			return nil, fmt.Errorf("seed %s references unknown character %q", s.ID, s.CharacterID)
		}
		seenSeed[s.ID] = true
		c.seeds = append(c.seeds, s)
	}
	return c, nil
}

// All は定義順の全キャラクターを返します。
func (c *Catalog) All() []domain.Character {
	out := make([]domain.Character, len(c.characters))
	copy(out, c.characters)
	return out
}

// ByID は ID でキャラクターを検索します。
func (c *Catalog) ByID(id string) (domain.Character, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.Character{}, false
	}
	return c.characters[i], true
}

// Categories は出現順のカテゴリ一覧を返します。
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// ByCategory は指定カテゴリのキャラクターを定義順で返します。
func (c *Catalog) ByCategory(category string) []domain.Character {
	var out []domain.Character
	for _, ch := range c.characters {
		if ch.Category == category {
			out = append(out, ch)
		}
	}
	return out
}

// Seeds はデモアイテムの設定を返します。
func (c *Catalog) Seeds() []SeedConfig {
	out := make([]SeedConfig, len(c.seeds))
	copy(out, c.seeds)
	return out
}

// SeedItems はデモアイテムをギャラリー用に組み立てます。
// 先頭ほど新しく、SeedInterval ずつ過去に遡ったタイムスタンプを持ちます。
func (c *Catalog) SeedItems(now time.Time) []domain.GalleryItem {
	items := make([]domain.GalleryItem, 0, len(c.seeds))
	for i, s := range c.seeds {
		items = append(items, domain.NewSeedItem(s.ID, s.CharacterID, s.GeneratedURL, now.Add(-time.Duration(i)*SeedInterval)))
	}
	return items
}
