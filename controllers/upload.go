package controllers

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/vnkhanh/podstation-backend/utils"
)

const (
	MaxImageBytes = 5 * 1024 * 1024   // 5MB cho ảnh bìa / avatar
	MaxAudioBytes = 100 * 1024 * 1024 // 100MB cho file audio
)

var (
	uploadFile = utils.UploadFileToSupabase
	deleteFile = utils.DeleteFileFromSupabase
)

// CheckImageUpload kiểm tra mime prefix và kích thước TRƯỚC khi upload
func CheckImageUpload(h *multipart.FileHeader) error {
	contentType := h.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return errors.New("file phải là hình ảnh (image/*)")
	}
	if h.Size > MaxImageBytes {
		return errors.New("hình ảnh vượt quá giới hạn 5MB")
	}
	return nil
}

// CheckAudioUpload kiểm tra mime prefix và kích thước TRƯỚC khi upload
func CheckAudioUpload(h *multipart.FileHeader) error {
	contentType := h.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "audio/") {
		return errors.New("file phải là audio (audio/*)")
	}
	if h.Size > MaxAudioBytes {
		return errors.New("file audio vượt quá giới hạn 100MB")
	}
	return nil
}
