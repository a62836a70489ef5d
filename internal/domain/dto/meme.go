package dto

// Meme is a finished captioned image: either a hosted URL (remote
// captioning) or raw PNG bytes (local compositing).
type Meme struct {
	URL   string
	Image []byte
}
