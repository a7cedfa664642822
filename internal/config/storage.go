package config

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StorageConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string
}

func NewStorageConfig() *StorageConfig {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		log.Fatal("Missing Cloudinary environment variables")
	}
	baseURL := os.Getenv("CLOUDINARY_API_URL")
	if baseURL == "" {
		baseURL = "https://api.cloudinary.com/v1_1"
	}
	return &StorageConfig{
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	}
}

// UploadResult is the subset of the upload response the application keeps:
// the public URL, the asset id for later reference, and the media duration
// in seconds (zero for images and documents).
type UploadResult struct {
	URL      string  `json:"secure_url"`
	PublicID string  `json:"public_id"`
	Duration float64 `json:"duration"`
}

type StorageService struct {
	config *StorageConfig
	client *http.Client
	logger *zap.Logger
}

func NewStorageService(config *StorageConfig, logger *zap.Logger) *StorageService {
	return &StorageService{
		config: config,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}
}

// Upload pushes a local temp file to object storage and returns its public
// URL. The local file is removed after the attempt whether or not it
// succeeded.
func (s *StorageService) Upload(filePath string) (*UploadResult, error) {
	if filePath == "" {
		return nil, nil
	}
	defer os.Remove(filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload file: %w", err)
	}
	defer file.Close()

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("api_key", s.config.APIKey)
	_ = writer.WriteField("timestamp", timestamp)
	_ = writer.WriteField("signature", s.sign(timestamp))
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	uploadURL := fmt.Sprintf("%s/%s/auto/upload", s.config.BaseURL, s.config.CloudName)
	req, err := http.NewRequest(http.MethodPost, uploadURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorResponse map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&errorResponse)
		return nil, fmt.Errorf("upload failed, status code: %d, error: %v", resp.StatusCode, errorResponse)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	s.logger.Info("File uploaded", zap.String("public_id", result.PublicID))
	return &result, nil
}

// sign produces the request signature: SHA-1 over the sorted upload params
// (here only timestamp) with the API secret appended.
func (s *StorageService) sign(timestamp string) string {
	payload := "timestamp=" + timestamp + s.config.APISecret
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// SaveTemp writes an incoming multipart file to a temp path so it can be
// handed to Upload, which owns deleting it.
func SaveTemp(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(header.Filename)
	path := filepath.Join(os.TempDir(), name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
