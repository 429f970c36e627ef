package utils

import (
	"log"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
)

var transcriptTagPattern = regexp.MustCompile(`<[^>]+>`)

// FetchTranscript fetches the auto-generated English captions for a video
// via the public timedtext endpoint. Returns an empty string when no
// transcript is available; a missing transcript is not an error, the quiz
// generator falls back to the secondary provider.
func FetchTranscript(youtubeVideoID string) string {
	client := resty.New()
	resp, err := client.R().
		SetQueryParams(map[string]string{
			"lang": "en",
			"v":    youtubeVideoID,
		}).
		Get("https://video.google.com/timedtext")
	if err != nil {
		log.Printf("Transcript fetch failed for %s: %v", youtubeVideoID, err)
		return ""
	}
	if resp.StatusCode() != 200 || len(resp.Body()) == 0 {
		return ""
	}

	// The endpoint returns caption XML; strip tags and decode the few
	// entities YouTube emits.
	text := transcriptTagPattern.ReplaceAllString(string(resp.Body()), " ")
	text = strings.ReplaceAll(text, "&amp;#39;", "'")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.Join(strings.Fields(text), " ")

	return text
}
