package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"communityAPI/internal/config"
	"communityAPI/internal/logging"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Upload is one file received from a multipart request.
type Upload struct {
	FileName string
	Reader   io.Reader
	Size     int64
}

type Storage interface {
	// ReplacePostPhotos removes every existing photo of the post before
	// storing the new ones.
	ReplacePostPhotos(ctx context.Context, postID int64, files []Upload) error
	DeletePostPhotos(ctx context.Context, postID int64) error
	PostPhotoURLs(ctx context.Context, postID int64) ([]string, error)

	PutProfileImage(ctx context.Context, userID int64, file Upload) error
	DeleteProfileImage(ctx context.Context, userID int64) error
	ProfileImageURL(ctx context.Context, userID int64) (string, error)
}

type MinIOClient struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MinIO: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки бакета: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinIO.BucketName, minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета: %w", err)
		}
		logging.Info().Str("bucket", cfg.MinIO.BucketName).Msg("created bucket")
	}

	expiry := cfg.MinIO.URLExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	return &MinIOClient{
		client: client,
		bucket: cfg.MinIO.BucketName,
		expiry: expiry,
	}, nil
}

func postPrefix(postID int64) string {
	return fmt.Sprintf("posts/%d/", postID)
}

func profileObject(userID int64) string {
	return fmt.Sprintf("profiles/%d", userID)
}

func photoObject(postID int64, fileName string) string {
	return postPrefix(postID) + uuid.New().String() + extension(fileName)
}

func extension(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		return ".jpg"
	}
	return ext
}

func contentType(fileName string) string {
	ct := mime.TypeByExtension(extension(fileName))
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}

func (m *MinIOClient) put(ctx context.Context, objectName string, file Upload) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, file.Reader, file.Size,
		minio.PutObjectOptions{
			ContentType: contentType(file.FileName),
			UserMetadata: map[string]string{
				"original-filename": file.FileName,
			},
		})
	if err != nil {
		return fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}
	return nil
}

func (m *MinIOClient) list(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("ошибка получения списка объектов: %w", obj.Err)
		}
		names = append(names, obj.Key)
	}
	return names, nil
}

func (m *MinIOClient) removeAll(ctx context.Context, names []string) error {
	for _, name := range names {
		if err := m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("ошибка удаления из MinIO: %w", err)
		}
	}
	return nil
}

func (m *MinIOClient) presign(ctx context.Context, objectName string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, m.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("ошибка создания ссылки: %w", err)
	}
	return u.String(), nil
}

func (m *MinIOClient) ReplacePostPhotos(ctx context.Context, postID int64, files []Upload) error {
	existing, err := m.list(ctx, postPrefix(postID))
	if err != nil {
		return err
	}
	if err := m.removeAll(ctx, existing); err != nil {
		return err
	}

	for _, file := range files {
		if err := m.put(ctx, photoObject(postID, file.FileName), file); err != nil {
			return err
		}
	}
	return nil
}

func (m *MinIOClient) DeletePostPhotos(ctx context.Context, postID int64) error {
	existing, err := m.list(ctx, postPrefix(postID))
	if err != nil {
		return err
	}
	return m.removeAll(ctx, existing)
}

func (m *MinIOClient) PostPhotoURLs(ctx context.Context, postID int64) ([]string, error) {
	names, err := m.list(ctx, postPrefix(postID))
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(names))
	for _, name := range names {
		u, err := m.presign(ctx, name)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

func (m *MinIOClient) PutProfileImage(ctx context.Context, userID int64, file Upload) error {
	return m.put(ctx, profileObject(userID), file)
}

func (m *MinIOClient) DeleteProfileImage(ctx context.Context, userID int64) error {
	return m.removeAll(ctx, []string{profileObject(userID)})
}

func (m *MinIOClient) ProfileImageURL(ctx context.Context, userID int64) (string, error) {
	return m.presign(ctx, profileObject(userID))
}
