package utils

import (
	"credlyse/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseYoutubeURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantID   string
		wantType string
		wantErr  bool
	}{
		{
			name:     "playlist url",
			url:      "https://www.youtube.com/playlist?list=PLabc123_-XYZ",
			wantID:   "PLabc123_-XYZ",
			wantType: models.PlaylistTypePlaylist,
		},
		{
			name:     "watch url with playlist param",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLabc123",
			wantID:   "PLabc123",
			wantType: models.PlaylistTypePlaylist,
		},
		{
			name:     "watch url",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantID:   "dQw4w9WgXcQ",
			wantType: models.PlaylistTypeSingleVideo,
		},
		{
			name:     "short url",
			url:      "https://youtu.be/dQw4w9WgXcQ",
			wantID:   "dQw4w9WgXcQ",
			wantType: models.PlaylistTypeSingleVideo,
		},
		{
			name:     "embed url",
			url:      "https://www.youtube.com/embed/dQw4w9WgXcQ",
			wantID:   "dQw4w9WgXcQ",
			wantType: models.PlaylistTypeSingleVideo,
		},
		{
			name:    "not a youtube url",
			url:     "https://example.com/watch?v=abc",
			wantErr: true,
		},
		{
			name:    "empty",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, contentType, err := ParseYoutubeURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantType, contentType)
		})
	}
}

func TestParseISODuration(t *testing.T) {
	assert.Equal(t, 0, ParseISODuration(""))
	assert.Equal(t, 15, ParseISODuration("PT15S"))
	assert.Equal(t, 272, ParseISODuration("PT4M32S"))
	assert.Equal(t, 3600, ParseISODuration("PT1H"))
	assert.Equal(t, 3930, ParseISODuration("PT1H5M30S"))
	assert.Equal(t, 0, ParseISODuration("garbage"))
}
