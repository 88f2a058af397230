package domain

// Character はヒーロー選択に表示されるキャラクターの定義です。
// 起動時に静的設定から読み込まれ、以後変更されません。
type Character struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Category    string `yaml:"category" json:"category"`
	Description string `yaml:"description" json:"description"`
	// StylePrompt は生成ゲートウェイにそのまま渡すスタイル指示です。
	StylePrompt string `yaml:"style_prompt" json:"style_prompt"`
	Color       string `yaml:"color" json:"color"`
	AccentColor string `yaml:"accent_color" json:"accent_color"`
	ImageURL    string `yaml:"image_url" json:"image_url"`
}
