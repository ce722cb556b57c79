package engine

// --- Video search ---

// VideoQuery describes one video-search call.
type VideoQuery struct {
	Query      string
	MaxResults int
	Order      string // "viewCount", "relevance", ...; empty = API default
	Language   string // relevanceLanguage; empty or "all" = unrestricted
	Embeddable bool
}

// Video is a single video-search hit.
type Video struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Channel  string `json:"channel,omitempty"`
	URL      string `json:"url"`
	EmbedURL string `json:"embed_url"`
}

// --- Web search ---

// WebResult is a single web-search hit. DisplayLink is the source domain as
// reported by the backend (Custom Search "displayLink", or the URL host).
type WebResult struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"display_link"`
}
