package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/sjcbulldog/xerodb/internal/config"
	"github.com/sjcbulldog/xerodb/internal/repository"
	"go.uber.org/zap"
)

// Services is the aggregate wired into the handlers.
type Services struct {
	Auth       *AuthService
	Robot      *RobotService
	Part       *PartService
	Transition *TransitionService
	Tree       *TreeService
	Order      *OrderService
	Lateness   *LatenessService
	Drawing    *DrawingService
}

// NewServices wires the service graph. MinIO is optional: without an
// endpoint configured the drawing endpoints report storage unavailable and
// everything else runs normally.
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, log *zap.Logger) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		mc, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			log.Warn("minio unavailable, drawings disabled", zap.Error(err))
		} else {
			minioClient = mc
		}
	}

	transitions := NewTransitionService()
	parts := NewPartService(repos.Part, repos.Audit, transitions, rdb, log)
	return &Services{
		Auth:       NewAuthService(repos.User, cfg.JWT),
		Robot:      NewRobotService(repos.Robot, parts),
		Part:       parts,
		Transition: transitions,
		Tree:       NewTreeService(transitions, log),
		Order:      NewOrderService(),
		Lateness:   NewLatenessService(),
		Drawing:    NewDrawingService(repos.Drawing, minioClient, cfg.MinIO.Bucket),
	}
}
