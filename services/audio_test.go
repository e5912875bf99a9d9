package services

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateDurationFromSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want int
	}{
		{"zero byte file still one second", 0, 1},
		{"tiny file rounds up to one second", 100, 1},
		{"one MiB is one minute", 1024 * 1024, 60},
		{"half MiB is thirty seconds", 512 * 1024, 30},
		{"ten MiB is ten minutes", 10 * 1024 * 1024, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateDurationFromSize(tt.size))
		})
	}
}

func TestMP3DurationFromReaderRejectsGarbage(t *testing.T) {
	// Dữ liệu không phải MP3: hoặc decode lỗi, hoặc không đọc ra frame nào.
	// Cả hai đều khiến EpisodeDurationSeconds rơi về ước lượng theo size.
	dur, err := MP3DurationFromReader(bytes.NewReader([]byte("this is not an mp3 stream")))
	if err == nil {
		assert.Less(t, dur, 1.0)
	}
}

func TestMP3DurationFromReaderEmptyInput(t *testing.T) {
	dur, _ := MP3DurationFromReader(bytes.NewReader(nil))
	assert.Zero(t, dur)
}

// Dựng *multipart.FileHeader thật qua ReadForm
func audioFileHeader(t *testing.T, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("audio", "ep.mp3")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["audio"]
	require.Len(t, files, 1)
	return files[0]
}

func TestEpisodeDurationSecondsFallsBackOnGarbage(t *testing.T) {
	// Không decode được MP3 -> ước lượng theo size, luôn >= 1
	header := audioFileHeader(t, bytes.Repeat([]byte("x"), 2*1024*1024))
	assert.Equal(t, 120, EpisodeDurationSeconds(header))

	header = audioFileHeader(t, []byte("tiny"))
	assert.Equal(t, 1, EpisodeDurationSeconds(header))
}
