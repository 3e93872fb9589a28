package gdocs

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"github.com/docrelay/docrelay/internal/types"
)

// DocsService creates Google Docs on behalf of a user.
type DocsService struct {
	svc *docs.Service
}

// NewDocsService builds a Docs client authorized by the user's bearer token.
func NewDocsService(ctx context.Context, token string, opts ...option.ClientOption) (*DocsService, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	svc, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docs service: %w", err)
	}
	return &DocsService{svc: svc}, nil
}

// CreateFromPages creates a document titled after the source file, fills it
// with the page content, and returns the document URL.
func (s *DocsService) CreateFromPages(ctx context.Context, pages []types.Page, originalFileName string) (string, error) {
	doc, err := s.svc.Documents.Create(&docs.Document{
		Title: "Converted_" + originalFileName,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}

	requests := BuildRequests(pages)
	if len(requests) > 0 {
		_, err = s.svc.Documents.BatchUpdate(doc.DocumentId, &docs.BatchUpdateDocumentRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("failed to populate document: %w", err)
		}
	}

	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", doc.DocumentId), nil
}
