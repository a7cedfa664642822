package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/playlist?list=PL590L5WQmH8dsxxz7ooJAgmijwOz0lh6H", ""},
		{"not a url", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ExtractVideoID(tc.url), tc.url)
	}
}

func TestExtractPlaylistID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/playlist?list=PL590L5WQmH8dsxxz7ooJAgmijwOz0lh6H", "PL590L5WQmH8dsxxz7ooJAgmijwOz0lh6H"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL123abc", "PL123abc"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ExtractPlaylistID(tc.url), tc.url)
	}
}

func TestParseISODuration(t *testing.T) {
	cases := []struct {
		iso  string
		want int
	}{
		{"PT1H2M3S", 3723},
		{"PT15M33S", 933},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"PT0S", 0},
		{"P1DT2H", 0},
		{"garbage", 0},
		{"", 0},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ParseISODuration(tc.iso), tc.iso)
	}
}
