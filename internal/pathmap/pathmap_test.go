package pathmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapper(t *testing.T) {
	m := New([]Mapping{
		{Stored: "/data/tv", Local: "/mnt/media/tv"},
		{Stored: "/data/tv/anime/", Local: "/mnt/anime"},
		{Stored: `D:\Shows`, Local: "/srv/shows"},
		{Stored: "", Local: "/ignored"},
	})

	tests := []struct {
		stored string
		local  string
	}{
		{"/data/tv/Show/S01E01.mkv", "/mnt/media/tv/Show/S01E01.mkv"},
		{"/data/tv/anime/Show/S01E01.mkv", "/mnt/anime/Show/S01E01.mkv"},
		{`D:\Shows\Show\S01E01.mkv`, "/srv/shows/Show/S01E01.mkv"},
		{"/data/tv", "/mnt/media/tv"},
	}
	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			assert.Equal(t, tt.local, m.ToLocal(tt.stored))
			assert.Equal(t, tt.stored, m.ToStored(m.ToLocal(tt.stored)), "round trip")
		})
	}
}

func TestMapper_Unmapped(t *testing.T) {
	m := New([]Mapping{{Stored: "/data/tv", Local: "/mnt/tv"}})

	assert.Equal(t, "/data/tvshows/a.mkv", m.ToLocal("/data/tvshows/a.mkv"), "prefix must end at a separator")
	assert.Equal(t, "/other/a.mkv", m.ToStored("/other/a.mkv"))

	var nilMapper *Mapper
	assert.Equal(t, "/x", nilMapper.ToLocal("/x"))
	assert.Equal(t, "/x", nilMapper.ToStored("/x"))
}
