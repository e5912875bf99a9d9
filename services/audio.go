package services

import (
	"io"
	"mime/multipart"

	tcmp3 "github.com/tcolgate/mp3"
)

// Ước lượng dự phòng: ~1 MiB ≈ 60 giây audio
const estimateBytesPerMinute = 1024 * 1024

// MP3DurationFromReader đọc toàn bộ frame MP3 và cộng dồn thời lượng, trả về số giây
func MP3DurationFromReader(r io.Reader) (float64, error) {
	var (
		dur     float64
		dec     = tcmp3.NewDecoder(r)
		frame   tcmp3.Frame
		skipped int
	)

	for {
		if err := dec.Decode(&frame, &skipped); err != nil {
			if err == io.EOF {
				break
			}
			return 0, err
		}
		dur += frame.Duration().Seconds()
	}

	return dur, nil
}

// EstimateDurationFromSize ước lượng thời lượng theo kích thước file, tối thiểu 1 giây
func EstimateDurationFromSize(sizeBytes int64) int {
	secs := int(sizeBytes * 60 / estimateBytesPerMinute)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// EpisodeDurationSeconds tính thời lượng episode từ file upload.
// Decode MP3 trước; nếu không đọc được metadata thì rơi về ước lượng theo size.
func EpisodeDurationSeconds(fileHeader *multipart.FileHeader) int {
	file, err := fileHeader.Open()
	if err != nil {
		return EstimateDurationFromSize(fileHeader.Size)
	}
	defer file.Close()

	dur, err := MP3DurationFromReader(file)
	if err != nil || dur < 1 {
		return EstimateDurationFromSize(fileHeader.Size)
	}
	return int(dur)
}
