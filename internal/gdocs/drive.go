package gdocs

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// File is one PDF visible in the user's Drive.
type File struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DriveService lists and downloads the user's Drive PDFs.
type DriveService struct {
	svc *drive.Service
}

// NewDriveService builds a Drive client authorized by the user's bearer token.
func NewDriveService(ctx context.Context, token string, opts ...option.ClientOption) (*DriveService, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &DriveService{svc: svc}, nil
}

// ListPDFs returns the PDFs the token grants access to, newest first.
func (s *DriveService) ListPDFs(ctx context.Context) ([]File, error) {
	list, err := s.svc.Files.List().
		Q("mimeType='application/pdf' and trashed=false").
		OrderBy("modifiedTime desc").
		Fields("files(id, name)").
		PageSize(100).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list drive files: %w", err)
	}

	files := make([]File, 0, len(list.Files))
	for _, f := range list.Files {
		files = append(files, File{ID: f.Id, Name: f.Name})
	}
	return files, nil
}

// Download fetches a file's content.
func (s *DriveService) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := s.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download drive file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive file: %w", err)
	}
	return data, nil
}
