package brainrot

// SubtitleOptions style the burned-in or overlaid subtitles. Field names
// follow the ASS style definition the server writes, capitalization
// included.
type SubtitleOptions struct {
	Name            string  `json:"Name,omitempty"`
	Fontname        string  `json:"Fontname,omitempty"`
	Fontsize        float64 `json:"Fontsize,omitempty"`
	PrimaryColour   string  `json:"PrimaryColour,omitempty"`
	SecondaryColour string  `json:"SecondaryColour,omitempty"`
	OutlineColour   string  `json:"OutlineColour,omitempty"`
	BackColour      string  `json:"BackColour,omitempty"`
	Bold            int     `json:"Bold,omitempty"`
	Italic          int     `json:"Italic,omitempty"`
	Underline       int     `json:"Underline,omitempty"`
	StrikeOut       int     `json:"StrikeOut,omitempty"`
	ScaleX          float64 `json:"ScaleX,omitempty"`
	ScaleY          float64 `json:"ScaleY,omitempty"`
	Spacing         float64 `json:"Spacing,omitempty"`
	Angle           float64 `json:"Angle,omitempty"`
	BorderStyle     int     `json:"BorderStyle,omitempty"`
	Outline         float64 `json:"Outline,omitempty"`
	Shadow          float64 `json:"Shadow,omitempty"`
	Alignment       string  `json:"Alignment,omitempty"`
	MarginL         int     `json:"MarginL,omitempty"`
	MarginR         int     `json:"MarginR,omitempty"`
	MarginV         int     `json:"MarginV,omitempty"`
}

// VideoOptions control fade-in/fade-out applied when the final video is
// assembled.
type VideoOptions struct {
	AudioFadeIn  float64 `json:"audio_fadein,omitempty"`
	AudioFadeOut float64 `json:"audio_fadeout,omitempty"`
	VideoFadeIn  float64 `json:"video_fadein,omitempty"`
	VideoFadeOut float64 `json:"video_fadeout,omitempty"`
}

// AudioOptions select the synthesized voice.
type AudioOptions struct {
	Voice string `json:"voice,omitempty"`
}

// GenerateRequest asks the Generation API for a complete text-to-video
// rendering in one round trip.
type GenerateRequest struct {
	Title           string          `json:"title"`
	Text            string          `json:"text"`
	SubtitleOptions SubtitleOptions `json:"subtitle_options"`
	VideoOptions    VideoOptions    `json:"video_options"`
	AudioOptions    AudioOptions    `json:"audio_options"`
}

// GenerateAudioRequest asks for the text-to-speech stage only. A FolderID
// from a previous call makes the request idempotent server-side.
type GenerateAudioRequest struct {
	Title        string       `json:"title"`
	Text         string       `json:"text"`
	FolderID     string       `json:"folder_id,omitempty"`
	AudioOptions AudioOptions `json:"audio_options"`
}

// GenerateSubtitlesRequest asks for subtitles covering previously
// synthesized speech.
type GenerateSubtitlesRequest struct {
	FolderID        string          `json:"folder_id"`
	SubtitleOptions SubtitleOptions `json:"subtitle_options"`
}

// GenerateDownloadRequest asks for the final assembled video.
type GenerateDownloadRequest struct {
	FolderID     string       `json:"folder_id"`
	VideoOptions VideoOptions `json:"video_options"`
}

// GenerateResult is an opaque generation payload: a video, a subtitle
// definition, or an archive containing both. Interpretation beyond the
// content type is left to the caller.
type GenerateResult struct {
	ContentType string
	FolderID    string
	Data        []byte
}
