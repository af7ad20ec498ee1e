package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeArtistName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Orbital", "Orbital"},
		{"  Orbital  ", "Orbital"},
		{"The  Chemical   Brothers", "The Chemical Brothers"},
		{"\tAphex\nTwin ", "Aphex Twin"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeArtistName(tc.in), "input %q", tc.in)
	}
}
