package youtube

// videoInfo is the subset of a yt-dlp info dump used here.
type videoInfo struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Track       string            `json:"track"`
	Artists     []string          `json:"artists"`
	Artist      string            `json:"artist"`
	Creator     string            `json:"creator"`
	Uploader    string            `json:"uploader"`
	Channel     string            `json:"channel"`
	Album       string            `json:"album"`
	ReleaseYear int               `json:"release_year"`
	ReleaseDate string            `json:"release_date"`
	UploadDate  string            `json:"upload_date"`
	Duration    float64           `json:"duration"`
	Thumbnail   string            `json:"thumbnail"`
	Thumbnails  []thumbnailInfo   `json:"thumbnails"`
	Formats     []formatInfo      `json:"formats"`
	HTTPHeaders map[string]string `json:"http_headers"`
}

type thumbnailInfo struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type formatInfo struct {
	FormatID    string            `json:"format_id"`
	URL         string            `json:"url"`
	Ext         string            `json:"ext"`
	ACodec      string            `json:"acodec"`
	VCodec      string            `json:"vcodec"`
	ABR         float64           `json:"abr"`
	TBR         float64           `json:"tbr"`
	FormatNote  string            `json:"format_note"`
	Protocol    string            `json:"protocol"`
	HTTPHeaders map[string]string `json:"http_headers"`
}

// listInfo is a flat playlist or search dump.
type listInfo struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Entries []entryInfo `json:"entries"`
}

type entryInfo struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Duration float64  `json:"duration"`
	Artists  []string `json:"artists"`
	Channel  string   `json:"channel"`
	Uploader string   `json:"uploader"`
	Album    string   `json:"album"`
}
