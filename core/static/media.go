package static

import (
	"path/filepath"
	"strings"
)

// Media extensions the overlay knows how to play, keyed by lowercase
// extension including the dot.
var (
	videoTypes = map[string]string{
		".avi": "video/x-msvideo",
		".gif": "image/gif",
		".mkv": "video/x-matroska",
		".mov": "video/quicktime",
		".mp4": "video/mp4",
		".wmv": "video/x-ms-wmv",
	}
	audioTypes = map[string]string{
		".mp3": "audio/mpeg",
		".ogg": "audio/ogg",
		".wav": "audio/wav",
	}
	imageTypes = map[string]string{
		".bmp": "image/bmp",
		".jpg": "image/jpeg",
		".png": "image/png",
	}
)

func ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// IsVideo reports whether the file name has a playable video extension.
// Animated GIFs count: the overlay renders them on the video layer.
func IsVideo(name string) bool {
	_, ok := videoTypes[ext(name)]
	return ok
}

// IsAudio reports whether the file name has a playable audio extension.
func IsAudio(name string) bool {
	_, ok := audioTypes[ext(name)]
	return ok
}

// IsImage reports whether the file name has a displayable image extension.
func IsImage(name string) bool {
	_, ok := imageTypes[ext(name)]
	return ok
}

// ContentType returns the MIME type for a known media file name. The second
// return value is false for extensions the overlay does not play; such files
// are never served.
func ContentType(name string) (string, bool) {
	e := ext(name)
	for _, types := range []map[string]string{videoTypes, audioTypes, imageTypes} {
		if ct, ok := types[e]; ok {
			return ct, true
		}
	}
	return "", false
}
