package domain

import (
	"fmt"
	"time"
)

// ItemKind はギャラリーアイテムの種別タグです。
type ItemKind int

const (
	// KindSeed は起動時に表示されるデモ用アイテムです。
	KindSeed ItemKind = iota
	// KindCaptured はユーザーの撮影から生成されたアイテムです。
	KindCaptured
)

func (k ItemKind) String() string {
	if k == KindSeed {
		return "seed"
	}
	return "captured"
}

// ImageRef は画像の参照です。URL かインラインデータのどちらかを持ちます。
type ImageRef struct {
	URL      string
	Data     []byte
	MimeType string
}

// IsZero は参照先が存在しない場合に true を返します。
func (r ImageRef) IsZero() bool {
	return r.URL == "" && len(r.Data) == 0
}

// GalleryItem はギャラリーに並ぶ成果物です。
// Generated は常に存在します（生成成功後にのみ作成されるため）。
type GalleryItem struct {
	ID          string
	Kind        ItemKind
	Original    ImageRef // シードアイテムでは空
	Generated   ImageRef
	CharacterID string
	CreatedAt   time.Time
}

// IsSeed はデモ用アイテムかどうかを返します。
func (i GalleryItem) IsSeed() bool {
	return i.Kind == KindSeed
}

// NewSeedItem はデモ用のシードアイテムを作成します。
func NewSeedItem(id, characterID, generatedURL string, createdAt time.Time) GalleryItem {
	return GalleryItem{
		ID:          id,
		Kind:        KindSeed,
		Generated:   ImageRef{URL: generatedURL},
		CharacterID: characterID,
		CreatedAt:   createdAt,
	}
}

// NewCapturedItem は生成成功時のアイテムを作成します。
func NewCapturedItem(id string, original []byte, generated ImageResponse, characterID string, createdAt time.Time) (GalleryItem, error) {
	if id == "" {
		return GalleryItem{}, fmt.Errorf("gallery item id is required")
	}
	if len(generated.Data) == 0 {
		return GalleryItem{}, fmt.Errorf("gallery item %s: generated image is empty", id)
	}
	return GalleryItem{
		ID:          id,
		Kind:        KindCaptured,
		Original:    ImageRef{Data: original, MimeType: "image/jpeg"},
		Generated:   ImageRef{Data: generated.Data, MimeType: generated.MimeType},
		CharacterID: characterID,
		CreatedAt:   createdAt,
	}, nil
}
