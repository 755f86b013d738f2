package media

import (
	"context"
	"fmt"
	"strings"

	"storefront-backend/internal/infrastructure/storage"
	"storefront-backend/internal/shared"

	"github.com/google/uuid"
)

type mediaService struct {
	storage   *storage.MinIOStorage
	processor *storage.ImageProcessor
}

func NewMediaService(st *storage.MinIOStorage, processor *storage.ImageProcessor) Service {
	return &mediaService{
		storage:   st,
		processor: processor,
	}
}

func tmpPrefix(collection string) string {
	return collection + "/tmp/"
}

func (s *mediaService) Upload(ctx context.Context, data []byte, filename, collection string) (*shared.Media, error) {
	if err := s.processor.ValidateImage(data); err != nil {
		return nil, err
	}

	variants, err := s.processor.ProcessImage(data)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	urls := map[string]string{}
	for variant, payload := range variants {
		key := fmt.Sprintf("%s%s/%s.jpg", tmpPrefix(collection), token, variant)
		url, err := s.storage.Upload(ctx, key, payload, "image/jpeg")
		if err != nil {
			return nil, fmt.Errorf("failed to store %s variant: %w", variant, err)
		}
		urls[variant] = url
	}

	return &shared.Media{
		VariantsURLs: shared.MediaVariants{
			Original: urls["original"],
			Large:    urls["large"],
			Medium:   urls["medium"],
			Small:    urls["small"],
		},
		AltText: filename,
	}, nil
}

func (s *mediaService) CheckTmpAndSaveMedias(ctx context.Context, medias []shared.Media, collection string) ([]shared.Media, []shared.Media, error) {
	var tmpMedias []shared.Media
	var savedMedias []shared.Media

	for _, m := range medias {
		key := s.storage.Key(m.VariantsURLs.Original)
		if !strings.HasPrefix(key, tmpPrefix(collection)) {
			savedMedias = append(savedMedias, m)
			continue
		}

		saved := m
		urls := []*string{
			&saved.VariantsURLs.Original,
			&saved.VariantsURLs.Large,
			&saved.VariantsURLs.Medium,
			&saved.VariantsURLs.Small,
		}
		for _, url := range urls {
			srcKey := s.storage.Key(*url)
			if srcKey == "" {
				continue
			}
			dstKey := strings.Replace(srcKey, tmpPrefix(collection), collection+"/", 1)
			if err := s.storage.Copy(ctx, srcKey, dstKey); err != nil {
				return nil, nil, fmt.Errorf("failed to promote media: %w", err)
			}
			*url = s.storage.URL(dstKey)
		}

		tmpMedias = append(tmpMedias, m)
		savedMedias = append(savedMedias, saved)
	}

	return tmpMedias, savedMedias, nil
}

func (s *mediaService) DeleteTmpMedias(ctx context.Context, medias []shared.Media, collection string) error {
	return s.deleteMedias(ctx, medias)
}

func (s *mediaService) DeleteSavedMedias(ctx context.Context, medias []shared.Media, collection string) error {
	return s.deleteMedias(ctx, medias)
}

func (s *mediaService) deleteMedias(ctx context.Context, medias []shared.Media) error {
	var keys []string
	for _, m := range medias {
		for _, url := range []string{
			m.VariantsURLs.Original,
			m.VariantsURLs.Large,
			m.VariantsURLs.Medium,
			m.VariantsURLs.Small,
		} {
			if key := s.storage.Key(url); key != "" {
				keys = append(keys, key)
			}
		}
	}

	if len(keys) == 0 {
		return nil
	}

	return s.storage.RemoveObjects(ctx, keys)
}
