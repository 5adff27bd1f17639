package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/repository"
)

var ErrDrawingStorageUnavailable = errors.New("drawing storage is not configured")

// DrawingService stores versioned drawing files for parts: metadata rows in
// the database, file bodies in object storage.
type DrawingService struct {
	drawings *repository.DrawingRepository
	mc       *minio.Client
	bucket   string
}

func NewDrawingService(drawings *repository.DrawingRepository, mc *minio.Client, bucket string) *DrawingService {
	return &DrawingService{drawings: drawings, mc: mc, bucket: bucket}
}

// Upload stores a new drawing version for the part.
func (s *DrawingService) Upload(ctx context.Context, actor *entity.User, number entity.PartNumber, fileName string, body io.Reader, size int64) (*entity.PartDrawing, error) {
	if s.mc == nil {
		return nil, ErrDrawingStorageUnavailable
	}
	if actor == nil {
		return nil, ErrUnknownUser
	}

	version, err := s.drawings.NextVersion(ctx, number.RobotID, number.Sequence)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("drawings/%03d/%05d/v%d/%s", number.RobotID, number.Sequence, version, fileName)
	if _, err := s.mc.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{}); err != nil {
		return nil, fmt.Errorf("store drawing: %w", err)
	}

	drawing := &entity.PartDrawing{
		RobotID:    number.RobotID,
		Sequence:   number.Sequence,
		Version:    version,
		FileName:   fileName,
		ObjectKey:  key,
		Size:       size,
		UploadedBy: actor.Username,
		CreatedAt:  time.Now(),
	}
	if err := s.drawings.Create(ctx, drawing); err != nil {
		return nil, err
	}
	return drawing, nil
}

// List returns the part's drawing versions, oldest first.
func (s *DrawingService) List(ctx context.Context, number entity.PartNumber) ([]entity.PartDrawing, error) {
	return s.drawings.ListByPart(ctx, number.RobotID, number.Sequence)
}

// Download opens the stored file body for a drawing id.
func (s *DrawingService) Download(ctx context.Context, id string) (*entity.PartDrawing, io.ReadCloser, error) {
	if s.mc == nil {
		return nil, nil, ErrDrawingStorageUnavailable
	}
	drawing, err := s.drawings.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	obj, err := s.mc.GetObject(ctx, s.bucket, drawing.ObjectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("open drawing: %w", err)
	}
	return drawing, obj, nil
}
