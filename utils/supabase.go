package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// Các bucket của hệ thống
const (
	BucketCovers  = "podcast-covers"
	BucketAudio   = "podcast-audio"
	BucketAvatars = "avatars"
)

func storageClient() *storage.Client {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	return storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)
}

// EnsureBuckets tạo các bucket nếu chưa tồn tại (idempotent, gọi lúc khởi động)
func EnsureBuckets() error {
	client := storageClient()
	for _, bucket := range []string{BucketCovers, BucketAudio, BucketAvatars} {
		if _, err := client.GetBucket(bucket); err == nil {
			continue
		}
		_, err := client.CreateBucket(bucket, storage.BucketOptions{Public: true})
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("không thể tạo bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// UploadFileToSupabase upload một multipart file vào bucket chỉ định
// Object path: <fileID>.<ext>, trả về public URL
func UploadFileToSupabase(fileHeader *multipart.FileHeader, bucket, fileID string) (string, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	objectPath := fileID + ext

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := storageClient().UploadFile(bucket, objectPath, &buf, options); err != nil {
		return "", err
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", supabaseURL, bucket, objectPath)
	return publicURL, nil
}

// ParseObjectFromPublicURL tách bucket/object từ public URL của Supabase Storage
func ParseObjectFromPublicURL(publicURL string) (bucket, object string, err error) {
	idx := strings.Index(publicURL, "/storage/v1/object/")
	if idx == -1 {
		return "", "", fmt.Errorf("không xác định được đường dẫn object trong URL: %s", publicURL)
	}

	rest := publicURL[idx+len("/storage/v1/object/"):]
	// Luôn bỏ prefix "public/" nếu có
	rest = strings.TrimPrefix(rest, "public/")

	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("không parse được bucket/object từ URL: %s", publicURL)
	}
	bucket = parts[0]
	object = parts[1]

	// bỏ query params nếu có
	if qIdx := strings.Index(object, "?"); qIdx != -1 {
		object = object[:qIdx]
	}
	if u, err := url.PathUnescape(object); err == nil {
		object = u
	}
	return bucket, object, nil
}

// DeleteFileFromSupabase nhận public URL và gọi API Supabase Storage để xóa object.
// Yêu cầu SUPABASE_URL và SUPABASE_KEY (key có quyền xóa) đã set trong ENV.
func DeleteFileFromSupabase(publicURL string) error {
	if publicURL == "" {
		return nil
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("SUPABASE_URL hoặc SUPABASE_KEY chưa cấu hình")
	}

	bucket, object, err := ParseObjectFromPublicURL(publicURL)
	if err != nil {
		return err
	}

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", strings.TrimRight(supabaseURL, "/"), bucket, object)

	req, err := http.NewRequest("DELETE", deleteURL, nil)
	if err != nil {
		return err
	}
	// Supabase expects Authorization: Bearer <SERVICE_KEY> and apikey header
	req.Header.Set("Authorization", "Bearer "+supabaseKey)
	req.Header.Set("apikey", supabaseKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	// Supabase trả 200 hoặc 204 khi xóa thành công
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("xóa file Supabase thất bại: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
