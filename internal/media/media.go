// Package media uploads trek, type, guide and testimonial images to a media
// host and returns their public URLs. Callers persist only URLs returned here.
package media

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Image is one uploaded file held in memory. The request body size limit
// bounds how large Data can get.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Uploader stores an image and returns the URL clients should use to fetch it.
type Uploader interface {
	Upload(ctx context.Context, img Image) (string, error)
}

var errEmptyURL = errors.New("media host returned no URL")

// UploadAll uploads images concurrently and returns their URLs in input
// order. It returns an error if any upload fails; in that case the context
// passed to the remaining uploads is cancelled and no URLs are returned.
func UploadAll(ctx context.Context, up Uploader, images []Image) ([]string, error) {
	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		g.Go(func() error {
			url, err := up.Upload(gctx, img)
			if err != nil {
				return fmt.Errorf("media.UploadAll: %s: %w", img.Filename, err)
			}
			if url == "" {
				return fmt.Errorf("media.UploadAll: %s: %w", img.Filename, errEmptyURL)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
