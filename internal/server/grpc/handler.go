package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	pb "github.com/dmitrijs2005/gophmedia/internal/proto"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {

	return &pb.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) InitAsset(ctx context.Context, req *pb.InitAssetRequest) (*pb.InitAssetResponse, error) {

	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	res, err := s.assets.InitAsset(ctx, userID, &models.Asset{
		ID:          req.Id,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Kind:        req.Kind,
		Size:        req.Size,
		Variants:    req.Variants,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Asset initialized", "user_id", userID, "id", req.Id, "content_id", res.ContentID)
	return &pb.InitAssetResponse{
		ContentId: res.ContentID,
		WriteUrls: res.WriteURLs,
		ExpiresAt: res.ExpiresAt.Unix(),
	}, nil

}

func (s *GRPCServer) CreateAsset(ctx context.Context, req *pb.CreateAssetRequest) (*pb.CreateAssetResponse, error) {

	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	a, err := s.assets.CreateAsset(ctx, userID, &models.Asset{
		ID:          req.Id,
		ContentID:   req.ContentId,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Kind:        req.Kind,
		Size:        req.Size,
		Duration:    time.Duration(req.DurationMs) * time.Millisecond,
		Color:       req.Color,
		XRes:        int(req.XRes),
		YRes:        int(req.YRes),
		Caption:     req.Caption,
		Variants:    req.Variants,
	}, int(req.ExpirationHours))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Asset committed", "user_id", userID, "id", a.ID, "content_id", a.ContentID)
	return &pb.CreateAssetResponse{Asset: assetToPB(a)}, nil

}

func assetToPB(a *models.Asset) *pb.Asset {
	out := &pb.Asset{
		Id:          a.ID,
		ContentId:   a.ContentID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Kind:        a.Kind,
		Size:        a.Size,
		DurationMs:  a.Duration.Milliseconds(),
		Color:       a.Color,
		XRes:        int32(a.XRes),
		YRes:        int32(a.YRes),
		Caption:     a.Caption,
		Status:      a.Status,
		ReadUrls:    a.ReadURLs,
	}
	if !a.CreatedAt.IsZero() {
		out.CreatedAt = a.CreatedAt.Unix()
	}
	if a.ExpiresAt != nil {
		out.ExpiresAt = a.ExpiresAt.Unix()
	}
	return out
}

func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "asset not found")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.PermissionDenied, "asset belongs to another user")
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.FailedPrecondition, "asset already committed")
	default:
		s.logger.Error(ctx, "internal error", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
