package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/justsurfingit/nextstep-web/internal/apiclient"
	"github.com/justsurfingit/nextstep-web/internal/models"
)

const pdfMIME = "application/pdf"

var (
	ErrNotPDF         = errors.New("upload is not a pdf")
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
)

type AccountService struct {
	Client *apiclient.Client
}

func NewAccountService(client *apiclient.Client) *AccountService {
	return &AccountService{Client: client}
}

func (s *AccountService) Get(ctx context.Context, token string) (models.Account, error) {
	return s.Client.WithToken(token).GetAccount(ctx)
}

// Update replaces the bio and, when pdf is non-nil, the stored document.
func (s *AccountService) Update(ctx context.Context, token, bio string, pdf *apiclient.Upload) error {
	return s.Client.WithToken(token).UpdateAccount(ctx, bio, pdf)
}

// ReadPDF reads at most limit bytes from r and accepts the content only when
// it sniffs as a PDF, whatever the file name claims.
func ReadPDF(filename string, r io.Reader, limit int64) (*apiclient.Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if int64(len(data)) > limit {
		return nil, ErrUploadTooLarge
	}

	mt := mimetype.Detect(data)
	if !mt.Is(pdfMIME) {
		return nil, fmt.Errorf("%s is %s: %w", filename, mt.String(), ErrNotPDF)
	}

	return &apiclient.Upload{
		Filename:    filepath.Base(filename),
		ContentType: pdfMIME,
		Data:        data,
	}, nil
}
